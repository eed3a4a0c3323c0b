package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// MustLoadDefinition reads a canonical definition fixture.
func MustLoadDefinition(t *testing.T, path string) *formdef.Field {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition reads and decodes a canonical definition fixture without a
// *testing.T so callers can wire fixtures in setup helpers.
func LoadDefinition(path string) (*formdef.Field, error) {
	if path == "" {
		return nil, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read definition: %w", err)
	}
	doc, err := formdef.NewDocument(formdef.SourceFromFile(path), data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: new document: %w", err)
	}
	raw, err := doc.Decode()
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode definition: %w", err)
	}
	return formdef.FromMap(raw)
}

// MustDefinition decodes an inline JSON definition.
func MustDefinition(t *testing.T, payload string) *formdef.Field {
	t.Helper()

	raw, err := formdef.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode definition: %v", err)
	}
	def, err := formdef.FromMap(raw)
	if err != nil {
		t.Fatalf("definition from map: %v", err)
	}
	return def
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

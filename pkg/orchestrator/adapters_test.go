package orchestrator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/orchestrator"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

type upperAdapter struct{}

func (upperAdapter) Name() string { return "Upper" }

func (upperAdapter) Detect(in orchestrator.AdaptInput) bool {
	_, ok := in.Definition["UPPER"]
	return ok
}

func (upperAdapter) Adapt(_ context.Context, in orchestrator.AdaptInput) (orchestrator.Adapted, error) {
	return orchestrator.Adapted{
		Definition: map[string]any{
			"id":        "upper",
			"fieldType": "form",
			"items": []any{
				map[string]any{"id": "shout", "name": "shout", "fieldType": "text-input", "value": in.Definition["UPPER"]},
			},
		},
		Source: "upper",
	}, nil
}

func TestAdapterRegistry(t *testing.T) {
	registry := orchestrator.NewAdapterRegistry()
	registry.MustRegister(upperAdapter{})
	registry.MustRegister(orchestrator.SheetAdapter{})

	if err := registry.Register(upperAdapter{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"sheet", "upper"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Get(" UPPER "); err != nil {
		t.Fatalf("expected case-insensitive lookup: %v", err)
	}
	matches := registry.Detect(orchestrator.AdaptInput{Definition: map[string]any{":type": "sheet", "data": []any{}}})
	if len(matches) != 1 || matches[0].Name() != orchestrator.AdapterSheet {
		t.Fatalf("expected sheet detection, got %v", matches)
	}
}

func TestGenerate_CustomAdapter(t *testing.T) {
	registry := orchestrator.NewAdapterRegistry()
	registry.MustRegister(upperAdapter{})
	orch, renderer := newCapture(t, orchestrator.WithAdapters(registry))

	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Definition: map[string]any{"UPPER": "HEY"}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got, _ := renderer.form.Tree.Data("source"); got != "upper" {
		t.Fatalf("expected adapter source, got %q", got)
	}
	input := renderer.form.Tree.Query("input")
	if input == nil || input.AttrValue("value") != "HEY" {
		t.Fatalf("expected adapted field rendered")
	}

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Definition: map[string]any{"id": "x"}, Format: "sheet"})
	if err == nil || !strings.Contains(err.Error(), `"sheet" not found`) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestGenerate_YAMLOpenAPIDetectedFromRaw(t *testing.T) {
	orch, renderer := newCapture(t)
	doc := formdef.MustNewDocument(stubSource{location: "api.yaml"}, []byte(`openapi: 3.0.3
info:
  title: Notes
  version: "1"
paths:
  /notes:
    post:
      operationId: createNote
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                body:
                  type: string
                  maxLength: 500
      responses:
        "201":
          description: created
`))

	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc, OperationID: "createNote"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.form.Tree.Query("textarea") == nil {
		t.Fatalf("expected long string rendered as textarea")
	}
}

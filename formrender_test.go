package formrender_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/pkg/formdef"
)

const contactDefinition = `{
  "id": "contact",
  "fieldType": "form",
  "action": "/content/forms/af/contact.model.json",
  ":itemsOrder": ["email"],
  ":items": {
    "email": {"id": "contact-email", "name": "email", "fieldType": "email", "label": {"value": "Email"}}
  }
}`

func TestGenerateHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contact.json")
	if err := os.WriteFile(path, []byte(contactDefinition), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	output, err := formrender.GenerateHTML(context.Background(), formdef.SourceFromFile(path))
	if err != nil {
		t.Fatalf("generate html: %v", err)
	}
	html := string(output)
	if !strings.HasPrefix(html, "<form") || !strings.Contains(html, `name="email"`) {
		t.Fatalf("unexpected html: %s", html)
	}
}

func TestGenerateHTMLFromDocument_Malformed(t *testing.T) {
	doc := formdef.MustNewDocument(formdef.SourceFromFile("broken.json"), []byte(`{"id": "x", ":items": {"a": {}}, ":itemsOrder": ["b"]}`))
	output, err := formrender.GenerateHTMLFromDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("malformed definitions are not errors: %v", err)
	}
	if len(output) != 0 {
		t.Fatalf("expected no output, got %s", output)
	}
}

func TestWithThemeManifests(t *testing.T) {
	if _, err := formrender.WithThemeManifests(""); err != nil {
		t.Fatalf("empty selector: %v", err)
	}
	manifest := &theme.Manifest{Name: "acme"}
	if _, err := formrender.WithThemeManifests("", manifest, manifest); err == nil {
		t.Fatalf("expected duplicate manifest error")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(formrender.EmbeddedTemplates(), "templates/page.tpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}

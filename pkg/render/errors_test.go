package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/testsupport"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const errorsDefinition = `{
  "id": "form",
  "fieldType": "form",
  ":itemsOrder": ["name", "owner", "tags"],
  ":items": {
    "name": {"id": "f-name", "name": "name", "fieldType": "text-input", "label": {"value": "Name"}},
    "owner": {
      "id": "f-owner", "name": "owner", "fieldType": "panel",
      ":itemsOrder": ["email", "phone"],
      ":items": {
        "email": {"id": "f-email", "name": "email", "fieldType": "email", "description": "Work address"},
        "phone": {"id": "f-phone", "name": "phone", "fieldType": "text-input"}
      }
    },
    "tags": {"id": "f-tags", "name": "tags", "fieldType": "text-input"}
  }
}`

func TestMapErrorPayload_Paths(t *testing.T) {
	def := testsupport.MustDefinition(t, errorsDefinition)

	payload := map[string][]string{
		"/body/name":                 {"Name is required", " Name is required "},
		"body.owner.email":           {"Email invalid"},
		"$.body.tags[0]":             {"Tags must be unique"},
		"request.payload.owner":      {"Owner missing"},
		"non_field_errors":           {"Form level error"},
		"body/owner/phone/~1number":  {"Phone malformed"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"f-email":                    {"Domain not allowed"},
		"":                           {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(def, payload)

	wantFields := map[string][]string{
		"f-name":  {"Name is required"},
		"f-email": {"Email invalid", "Domain not allowed"},
		"f-tags":  {"Tags must be unique"},
		"f-phone": {"Phone malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{
		"Unscoped form error",
		"Form level error",
		"Owner missing",
		"Should fall back to form errors",
	}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrors_DecoratesRenderedForm(t *testing.T) {
	def := testsupport.MustDefinition(t, errorsDefinition)
	tree := ui.Element("form")
	if err := render.NewEngine().Render(context.Background(), def, tree, "form", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	form := render.Form{ID: "form", Definition: def, Tree: tree}

	render.ApplyErrors(form, map[string][]string{
		"owner.email": {"Email invalid"},
		"form":        {"Try again later"},
	})

	wrapper := form.Wrapper("f-email")
	if wrapper == nil || !wrapper.HasClass("field-invalid") {
		t.Fatalf("expected invalid email wrapper, got %s", ui.HTML(tree))
	}
	if got := wrapper.Query(".field-description").TextContent(); got != "Email invalid" {
		t.Fatalf("unexpected help text %q", got)
	}
	if got := wrapper.AttrValue("data-description"); got != "Work address" {
		t.Fatalf("expected original description preserved, got %q", got)
	}

	first := tree.Elements()[0]
	if !first.HasClass(render.FormErrorsClass) || first.TextContent() != "Try again later" {
		t.Fatalf("expected form-level block first, got %s", ui.HTML(first))
	}
}

package sheet_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/normalize"
	"github.com/goliatone/go-formrender/pkg/sheet"
)

const sheetDefinition = `{
  ":type": "sheet",
  "id": "contact",
  "action": "/forms/contact",
  "data": [
    {"Name": "email", "Type": "email", "Label": "Email", "Mandatory": "x", "Placeholder": "you@example.com"},
    {"Name": "city", "Type": "text", "Fieldset": "address", "Max": "40"},
    {"Name": "address", "Type": "fieldset", "Label": "Address", "Repeatable": "true", "Min": "1", "Max": "3"},
    {"Name": "zip", "Type": "number", "Fieldset": "address", "Min": "1000"},
    {"Name": "topic", "Type": "select", "Options": "sales, support ,", "Value": "support"},
    {"Name": "contact", "Type": "radio", "Options": "mail,phone"},
    {"Name": "terms", "Type": "checkbox", "Label": "I agree"},
    {"Name": "", "Type": "plaintext", "Label": "Thanks for writing"},
    {"name": "send", "type": "submit", "label": "Send"},
    {}
  ]
}`

func mustDecode(t *testing.T, payload string) map[string]any {
	t.Helper()
	raw, err := formdef.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return raw
}

func TestConvert_ProducesAlternateShape(t *testing.T) {
	out, err := sheet.Convert(mustDecode(t, sheetDefinition))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !formdef.IsAlternateShape(out) {
		t.Fatalf("expected alternate shape, got %#v", out)
	}

	items := out["items"].([]any)
	var names []string
	for _, item := range items {
		names = append(names, item.(map[string]any)["name"].(string))
	}
	want := []string{"email", "address", "topic", "contact", "terms", "plaintext-7", "send"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("top level order mismatch (-want +got):\n%s", diff)
	}
	if out["action"] != "/forms/contact" || out["id"] != "contact" {
		t.Fatalf("expected form level keys carried, got %#v", out)
	}

	email := items[0].(map[string]any)
	wantEmail := map[string]any{
		"id":          "email",
		"name":        "email",
		"fieldType":   "email-input",
		"label":       map[string]any{"value": "Email"},
		"placeholder": "you@example.com",
		"required":    true,
	}
	if diff := cmp.Diff(wantEmail, email); diff != "" {
		t.Fatalf("email mismatch (-want +got):\n%s", diff)
	}

	address := items[1].(map[string]any)
	if address["repeatable"] != true || address["minItems"] != float64(1) || address["maxItems"] != float64(3) {
		t.Fatalf("expected repeatable panel bounds, got %#v", address)
	}
	children := address["items"].([]any)
	if len(children) != 2 {
		t.Fatalf("expected 2 panel children, got %d", len(children))
	}
	if city := children[0].(map[string]any); city["maxLength"] != float64(40) {
		t.Fatalf("expected text max length, got %#v", city)
	}
	if zip := children[1].(map[string]any); zip["minimum"] != float64(1000) {
		t.Fatalf("expected number minimum, got %#v", zip)
	}

	topic := items[2].(map[string]any)
	if diff := cmp.Diff([]any{"sales", "support"}, topic["enum"]); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if topic["fieldType"] != formdef.FieldTypeDropDown || topic["value"] != "support" {
		t.Fatalf("unexpected select %#v", topic)
	}
	if contact := items[3].(map[string]any); contact["fieldType"] != formdef.FieldTypeRadioGroup {
		t.Fatalf("expected radio group for options, got %#v", contact)
	}
	if terms := items[4].(map[string]any); cmp.Diff([]any{"on"}, terms["enum"]) != "" {
		t.Fatalf("expected default checkbox value, got %#v", terms)
	}
	if text := items[5].(map[string]any); text["value"] != "Thanks for writing" || text["label"] != nil {
		t.Fatalf("expected label moved to value, got %#v", text)
	}
	if send := items[6].(map[string]any); send["buttonType"] != "submit" || send["fieldType"] != formdef.FieldTypeButton {
		t.Fatalf("unexpected submit button %#v", send)
	}
}

func TestConvert_NormalizesToCanonical(t *testing.T) {
	out, err := sheet.Convert(mustDecode(t, sheetDefinition))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	canonical := normalize.MustNew().Normalize(out)
	def, err := formdef.FromMap(canonical)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]string{"city", "zip"}, def.Items["address"].ItemsOrder); diff != "" {
		t.Fatalf("panel order mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_CustomType(t *testing.T) {
	def := map[string]any{
		":type": "sheet",
		"data":  []any{map[string]any{"Name": "when", "Type": "datetime"}},
	}
	out, err := sheet.New(sheet.WithType("datetime", "datetime-input")).Convert(def)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	item := out["items"].([]any)[0].(map[string]any)
	if item["fieldType"] != "datetime-input" || out["id"] != "form" {
		t.Fatalf("unexpected conversion %#v", out)
	}
}

func TestConvert_RejectsOtherShapes(t *testing.T) {
	if _, err := sheet.Convert(map[string]any{"items": []any{}}); !errors.Is(err, sheet.ErrNotSheet) {
		t.Fatalf("expected ErrNotSheet, got %v", err)
	}
	_, err := sheet.Convert(map[string]any{":type": "sheet", "data": "rows"})
	if err == nil {
		t.Fatalf("expected error for non-array data")
	}
}

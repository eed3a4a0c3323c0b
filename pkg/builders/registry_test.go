package builders

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

func TestDispatch_Fallback(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		fieldType string
		dedicated bool
	}{
		{"unknown-type", false},
		{"", false},
		{"text-input", false},
		{"drop-down", true},
		{"panel", true},
		{"checkbox-group", true},
	}
	for _, tc := range cases {
		builder, dedicated := reg.Dispatch(tc.fieldType)
		if builder == nil {
			t.Fatalf("dispatch %q: expected builder", tc.fieldType)
		}
		if dedicated != tc.dedicated {
			t.Errorf("dispatch %q: dedicated want %v, got %v", tc.fieldType, tc.dedicated, dedicated)
		}
	}

	node, err := reg.Build(&formdef.Field{ID: "u", Name: "mystery", FieldType: "unknown-type"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !node.HasClass("unknown-type-wrapper") || !node.HasClass("field-wrapper") {
		t.Fatalf("unexpected wrapper classes %q", node.AttrValue("class"))
	}
	input := node.Query("input")
	if input == nil || input.AttrValue("type") != "text" {
		t.Fatalf("expected generic text input, got %s", ui.HTML(node))
	}
}

func TestRegistry_RegisterCloneNames(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(formdef.FieldTypePanel, BuilderFunc(func(*formdef.Field) (*ui.Node, error) { return nil, nil })); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	clone := reg.Clone()
	clone.MustRegister("signature", BuilderFunc(func(f *formdef.Field) (*ui.Node, error) {
		return ui.Element("canvas", ui.A("id", f.ID)), nil
	}))
	if _, ok := reg.Lookup("signature"); ok {
		t.Fatalf("clone registration leaked into the original")
	}
	node, err := clone.Build(&formdef.Field{ID: "sig", FieldType: "signature-input"})
	if err != nil || node.Tag != "canvas" {
		t.Fatalf("expected custom builder, got %v %v", node, err)
	}

	want := []string{
		"button", "checkbox", "checkbox-group", "drop-down", "heading", "image",
		"multiline", "panel", "plain-text", "radio", "radio-group",
	}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestInput_WrapperMarkup(t *testing.T) {
	field := &formdef.Field{
		ID:          "name",
		Name:        "First Name",
		FieldType:   "text-input",
		Label:       &formdef.Label{Value: "Name"},
		Placeholder: "Jane",
		MaxLength:   float64(20),
	}
	got := ui.HTML(Input(field))
	want := `<div class="text-wrapper field-first-name field-wrapper"><label for="name" class="field-label">Name</label><input type="text" placeholder="Jane" maxlength="20"/></div>`
	if got != want {
		t.Fatalf("markup mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestWrapper_HiddenFieldAndLabel(t *testing.T) {
	hidden := false
	field := &formdef.Field{
		ID:        "x",
		FieldType: "email-input",
		Visible:   &hidden,
		Tooltip:   "<b>Work</b> email",
		Label:     &formdef.Label{Value: "Email", Visible: &hidden},
	}
	node := Wrapper(field)
	if node.AttrValue("data-visible") != "false" {
		t.Fatalf("expected data-visible=false on wrapper")
	}
	label := node.Query("label")
	if label.AttrValue("data-visible") != "false" || label.AttrValue("title") != "Work email" {
		t.Fatalf("unexpected label %s", ui.HTML(label))
	}
}

func TestSelect_Options(t *testing.T) {
	field := &formdef.Field{
		ID:          "color",
		FieldType:   "drop-down",
		Type:        "string[]",
		Placeholder: "Pick one",
		Enum:        []any{"r", "g"},
		EnumNames:   []any{map[string]any{"value": "Red"}, "Green"},
		Value:       []any{"g"},
	}
	sel := Select(field).Query("select")
	if !sel.HasAttr("multiple") {
		t.Fatalf("expected string[] to produce a multiple select")
	}
	options := sel.QueryAll("option")
	if len(options) != 3 {
		t.Fatalf("expected placeholder plus two options, got %d", len(options))
	}
	var labels []string
	for _, option := range options {
		labels = append(labels, option.TextContent()+"="+option.AttrValue("value"))
	}
	if diff := cmp.Diff([]string{"Pick one=", "Red=r", "Green=g"}, labels); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if !options[0].HasAttr("disabled") || !options[2].HasAttr("selected") || options[1].HasAttr("selected") {
		t.Fatalf("unexpected selection state: %s", ui.HTML(sel))
	}
}

func TestRadioOrCheckboxGroup(t *testing.T) {
	group := func(fieldType string) *ui.Node {
		return RadioOrCheckboxGroup(&formdef.Field{
			ID:         "g",
			Name:       "choice",
			FieldType:  fieldType,
			Required:   true,
			ReadOnly:   true,
			Enum:       []any{"a", "b", "c"},
			Value:      "b",
			Label:      &formdef.Label{Value: "Choose"},
			Properties: map[string]any{"variant": "cards", "afs:layout": map[string]any{"orientation": "horizontal"}},
			ConstraintMessages: map[string]string{
				"required": "Pick something",
			},
		})
	}

	radios := group(formdef.FieldTypeRadioGroup)
	if radios.Tag != "fieldset" || radios.ChildMatching("legend") == nil {
		t.Fatalf("expected fieldset with legend, got %s", ui.HTML(radios))
	}
	for _, class := range []string{"radio-group-wrapper", "cards", "horizontal"} {
		if !radios.HasClass(class) {
			t.Errorf("expected class %q on %q", class, radios.AttrValue("class"))
		}
	}
	if radios.AttrValue("data-required") != "true" || radios.AttrValue("data-required-error-message") != "Pick something" {
		t.Fatalf("expected required metadata on group wrapper")
	}
	inputs := radios.QueryAll("input")
	if len(inputs) != 3 {
		t.Fatalf("expected three radios, got %d", len(inputs))
	}
	for i, input := range inputs {
		if input.AttrValue("type") != "radio" || input.AttrValue("name") != "g" {
			t.Fatalf("radio %d: unexpected %s", i, ui.HTML(input))
		}
		if got := input.HasAttr("required"); got != (i == 0) {
			t.Errorf("radio %d: required=%v", i, got)
		}
		if got := input.HasAttr("checked"); got != (i == 1) {
			t.Errorf("radio %d: checked=%v", i, got)
		}
		if !input.HasAttr("disabled") {
			t.Errorf("radio %d: expected read-only group to disable controls", i)
		}
	}

	checks := group(formdef.FieldTypeCheckboxGroup).QueryAll("input")
	for i, input := range checks {
		if input.AttrValue("type") != "checkbox" || !input.HasAttr("required") {
			t.Errorf("checkbox %d: expected required checkbox, got %s", i, ui.HTML(input))
		}
	}
}

func TestButton_HiddenLabel(t *testing.T) {
	hidden := false
	disabled := false
	node := Button(&formdef.Field{
		ID:         "go",
		Name:       "go",
		FieldType:  "button",
		ButtonType: "submit",
		Enabled:    &disabled,
		Label:      &formdef.Label{Value: "Send", Visible: &hidden},
	})
	if !node.HasClass("submit-wrapper") || len(node.Children) != 1 {
		t.Fatalf("unexpected wrapper %s", ui.HTML(node))
	}
	button := node.Children[0]
	if button.AttrValue("aria-label") != "Send" || button.TextContent() != "" || !button.HasAttr("disabled") {
		t.Fatalf("unexpected button %s", ui.HTML(button))
	}
}

func TestPlainText_SanitizesRichText(t *testing.T) {
	node := PlainText(&formdef.Field{
		ID:        "t",
		FieldType: "plain-text",
		RichText:  true,
		Value:     `<p>Hello <b>there</b><script>alert(1)</script></p>`,
	})
	got := ui.HTML(node)
	if strings.Contains(got, "script") || !strings.Contains(got, "<b>there</b>") {
		t.Fatalf("unexpected rich text output %s", got)
	}
}

func TestSetConstraints_PerRenderType(t *testing.T) {
	node := ui.Element("fieldset")
	SetConstraints(node, &formdef.Field{FieldType: "panel", MaxOccur: float64(3), MinOccur: float64(0)})
	if node.AttrValue("data-max") != "3" || node.HasAttr("data-min") {
		t.Fatalf("unexpected panel constraints %s", ui.HTML(node))
	}

	input := ui.Element("input")
	SetConstraints(input, &formdef.Field{FieldType: "number-input", Maximum: float64(9), Step: 0.5, MaxLength: float64(3)})
	if input.AttrValue("max") != "9" || input.AttrValue("step") != "0.5" || input.HasAttr("maxlength") {
		t.Fatalf("unexpected number constraints %s", ui.HTML(input))
	}
}

package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/rules"
	"github.com/goliatone/go-formrender/pkg/rules/expr"
	"github.com/goliatone/go-formrender/pkg/testsupport"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const definition = `{
  "id": "form",
  "fieldType": "form",
  ":items": {
    "plan": {"id": "plan", "name": "plan", "fieldType": "drop-down", "enum": ["free", "pro"], "value": "free"},
    "seats": {"id": "seats", "name": "seats", "fieldType": "number-input",
      "rules": {"visible": "plan == \"pro\"", "required": "plan == 'pro'"}},
    "billing": {"id": "billing", "name": "billing", "fieldType": "panel",
      "rules": {"enabled": "seats >= 5"},
      ":items": {
        "vat": {"id": "vat", "name": "vat", "fieldType": "text-input"}
      },
      ":itemsOrder": ["vat"]},
    "notes": {"id": "notes", "name": "notes", "fieldType": "multiline-input"},
    "terms": {"id": "terms", "name": "terms", "fieldType": "checkbox", "enum": ["yes"]}
  },
  ":itemsOrder": ["plan", "seats", "billing", "notes", "terms"]
}`

func renderForm(t *testing.T, def *formdef.Field) *ui.Node {
	t.Helper()
	form := ui.Element("form")
	if err := render.NewEngine().Render(context.Background(), def, form, "f1", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	return form
}

func newEngine(t *testing.T, opts ...rules.Option) *rules.Engine {
	t.Helper()
	engine, err := rules.New(expr.New(), opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_AppliesRulesFromDefinitionValues(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)
	form := renderForm(t, def)

	if err := newEngine(t).Initialize(context.Background(), def, form, nil, nil, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	rendered := render.Form{Tree: form}
	if got := rendered.Wrapper("seats").AttrValue("data-visible"); got != "false" {
		t.Fatalf("expected seats hidden, got %q", got)
	}
	if rendered.Control("seats").HasAttr("required") {
		t.Fatalf("expected seats optional for free plan")
	}
	if !rendered.Control("vat").HasAttr("disabled") {
		t.Fatalf("expected billing controls disabled, got %s", ui.HTML(form))
	}
}

func TestEngine_DataOverridesAndPrefills(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)
	form := renderForm(t, def)

	data := map[string]any{
		"plan":    "pro",
		"seats":   float64(8),
		"billing": map[string]any{"vat": "DE123"},
		"notes":   "call me",
		"terms":   "yes",
	}
	if err := newEngine(t).Initialize(context.Background(), def, form, nil, nil, data); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	rendered := render.Form{Tree: form}
	if got := rendered.Wrapper("seats").AttrValue("data-visible"); got != "true" {
		t.Fatalf("expected seats visible, got %q", got)
	}
	if !rendered.Control("seats").HasAttr("required") {
		t.Fatalf("expected seats required for pro plan")
	}
	if rendered.Control("vat").HasAttr("disabled") {
		t.Fatalf("expected billing enabled")
	}

	got := map[string]string{
		"seats": rendered.Control("seats").AttrValue("value"),
		"vat":   rendered.Control("vat").AttrValue("value"),
		"notes": rendered.Control("notes").TextContent(),
	}
	want := map[string]string{"seats": "8", "vat": "DE123", "notes": "call me"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prefill mismatch (-want +got):\n%s", diff)
	}
	if !rendered.Control("terms").HasAttr("checked") {
		t.Fatalf("expected terms checked")
	}
	if !rendered.Control("plan").Query(`option[value=pro]`).HasAttr("selected") {
		t.Fatalf("expected pro option selected")
	}
}

func TestEngine_UpdateReappliesRules(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)
	form := renderForm(t, def)
	engine := newEngine(t, rules.WithoutPrefill())

	ctx := context.Background()
	if err := engine.Initialize(ctx, def, form, nil, nil, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := engine.Update(ctx, map[string]any{"plan": "pro"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rendered := render.Form{Tree: form}
	if got := rendered.Wrapper("seats").AttrValue("data-visible"); got != "true" {
		t.Fatalf("expected seats visible after update, got %q", got)
	}
	if got := rendered.Control("plan").Query(`option[value=pro]`); got.HasAttr("selected") {
		t.Fatalf("expected prefill disabled")
	}
}

func TestEngine_RerenderRebinds(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)
	engine := newEngine(t)
	ctx := context.Background()

	calls := 0
	renderFn := func(ctx context.Context, _ map[string]any) (*ui.Node, error) {
		calls++
		return renderForm(t, def), nil
	}
	if err := engine.Initialize(ctx, def, renderForm(t, def), nil, renderFn, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	fresh, err := engine.Rerender(ctx, map[string]any{"plan": "pro"})
	if err != nil {
		t.Fatalf("rerender: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one render call, got %d", calls)
	}
	if got := (render.Form{Tree: fresh}).Wrapper("seats").AttrValue("data-visible"); got != "true" {
		t.Fatalf("expected rules applied to fresh form, got %q", got)
	}
}

func TestEngine_CollectsEvaluationErrors(t *testing.T) {
	def := testsupport.MustDefinition(t, `{
  "id": "form",
  ":items": {
    "a": {"id": "a", "name": "a", "rules": {"visible": "a = 1"}},
    "b": {"id": "b", "name": "b", "rules": {"visible": "false == a"}},
    "c": {"id": "c", "name": "c", "rules": {"visible": "a == null"}}
  },
  ":itemsOrder": ["a", "b", "c"]
}`)
	form := renderForm(t, def)

	err := newEngine(t).Initialize(context.Background(), def, form, nil, nil, nil)
	var evalErr *rules.EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	if got := (render.Form{Tree: form}).Wrapper("c").AttrValue("data-visible"); got != "true" {
		t.Fatalf("expected remaining rules applied, got %q", got)
	}
}

func TestEngine_RequiresEvaluator(t *testing.T) {
	if _, err := rules.New(nil); err == nil {
		t.Fatalf("expected error without evaluator")
	}
}

func TestFlattenAndValues(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)

	var paths []string
	for _, entry := range rules.Flatten(def) {
		paths = append(paths, entry.Path)
	}
	if diff := cmp.Diff([]string{"plan", "seats", "billing", "billing.vat", "notes", "terms"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	values := rules.Values(def, map[string]any{"seats": 2, "extra": true})
	if values["plan"] != "free" || values["seats"] != 2 || values["extra"] != true {
		t.Fatalf("unexpected values %#v", values)
	}
	if _, ok := values["billing"]; ok {
		t.Fatalf("panels carry no value")
	}
}

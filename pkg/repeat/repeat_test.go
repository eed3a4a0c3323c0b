package repeat_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/decorate"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/repeat"
	"github.com/goliatone/go-formrender/pkg/testsupport"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const repeatableDefinition = `{
  "id": "form",
  "fieldType": "form",
  ":itemsOrder": ["intro", "row0", "row1", "after"],
  ":items": {
    "intro": {"id": "intro", "name": "intro", "fieldType": "text-input"},
    "row0": {
      "id": "row0", "name": "rows", "fieldType": "panel", "repeatable": true, "index": 0,
      "minOccur": 1, "maxOccur": 3,
      ":itemsOrder": ["cell0"],
      ":items": {"cell0": {"id": "cell0", "name": "cell", "fieldType": "text-input"}}
    },
    "row1": {
      "id": "row1", "name": "rows", "fieldType": "panel", "repeatable": true, "index": 1,
      ":itemsOrder": ["cell1"],
      ":items": {"cell1": {"id": "cell1", "name": "cell", "fieldType": "text-input"}}
    },
    "after": {"id": "after", "name": "after", "fieldType": "text-input"}
  }
}`

func renderForm(t *testing.T, group *repeat.Group) *ui.Node {
	t.Helper()
	def := testsupport.MustDefinition(t, repeatableDefinition)
	form := ui.Element("form")
	engine := render.NewEngine(render.WithRepeatGroup(group))
	if err := engine.Render(context.Background(), def, form, "form", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	return form
}

func TestGroup_ControlsOnFirstInstanceOnly(t *testing.T) {
	form := renderForm(t, repeat.New(repeat.WithLabels("Add row", "")))

	first := form.Query("#row0")
	if first.ChildMatching("."+decorate.AddControlClass) == nil {
		t.Fatalf("expected add block on first instance: %s", ui.HTML(first))
	}
	if first.ChildMatching("."+decorate.RemoveControlClass) == nil {
		t.Fatalf("expected remove button on first instance")
	}
	if got := first.Query("." + repeat.AddButtonClass).TextContent(); got != "Add row" {
		t.Fatalf("unexpected add caption %q", got)
	}
	if got := first.Query("." + repeat.AddButtonClass).AttrValue("data-for"); got != "row0" {
		t.Fatalf("unexpected data-for %q", got)
	}
	if got := len(form.QueryAll("." + decorate.AddControlClass)); got != 1 {
		t.Fatalf("expected a single add block, got %d", got)
	}
	if got := len(form.QueryAll("." + decorate.RemoveControlClass)); got != 1 {
		t.Fatalf("expected a single remove button, got %d", got)
	}
}

func TestGroup_RequestsAreIdempotent(t *testing.T) {
	group := repeat.New()
	panel := ui.Element("fieldset", ui.A("id", "p"))
	group.RequestAddControl(panel)
	group.RequestAddControl(panel)
	group.RequestRemoveControl(panel)
	group.RequestRemoveControl(panel)
	if got := len(panel.Children); got != 2 {
		t.Fatalf("expected two controls, got %d: %s", got, ui.HTML(panel))
	}
}

func TestGroup_TransferWrapsInstances(t *testing.T) {
	group := repeat.New()
	form := renderForm(t, group)
	group.Transfer(form)

	var order []string
	for _, child := range form.Elements() {
		if child.HasClass(repeat.WrapperClass) {
			order = append(order, "wrapper")
			continue
		}
		order = append(order, child.Query("input").AttrValue("id"))
	}
	if diff := cmp.Diff([]string{"intro", "wrapper", "after"}, order); diff != "" {
		t.Fatalf("form order mismatch (-want +got):\n%s", diff)
	}

	wrapper := form.Query("." + repeat.WrapperClass)
	var inside []string
	for _, child := range wrapper.Elements() {
		if child.HasClass(decorate.AddControlClass) {
			inside = append(inside, "actions")
			continue
		}
		inside = append(inside, child.AttrValue("id"))
	}
	if diff := cmp.Diff([]string{"row0", "row1", "actions"}, inside); diff != "" {
		t.Fatalf("wrapper content mismatch (-want +got):\n%s", diff)
	}
	if wrapper.AttrValue("data-id") != "row0" || wrapper.AttrValue("data-variant") != repeat.DefaultVariant {
		t.Fatalf("unexpected wrapper metadata: %s", ui.HTML(wrapper))
	}

	group.Transfer(form)
	if got := len(form.QueryAll("." + repeat.WrapperClass)); got != 1 {
		t.Fatalf("expected transfer to be idempotent, got %d wrappers", got)
	}
}

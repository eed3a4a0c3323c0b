package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/ui"
)

func TestAppendHidden(t *testing.T) {
	form := ui.Element("form")
	form.Append(ui.Element("input", ui.A("type", "hidden"), ui.A("name", "version"), ui.A("value", "1")))

	render.AppendHidden(form,
		render.CSRFToken("_csrf", "token123"),
		render.Hidden(" version ", 4),
		render.Hidden("  ", "skip"),
		render.Hidden("_csrf", "token456"),
	)

	got := map[string]string{}
	for _, input := range form.QueryAll("input[type=hidden]") {
		got[input.AttrValue("name")] = input.AttrValue("value")
	}
	want := map[string]string{"_csrf": "token456", "version": "4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if len(form.Children) != 2 {
		t.Fatalf("expected two hidden inputs, got %d", len(form.Children))
	}
}

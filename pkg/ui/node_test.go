package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuery_FirstMatchInDocumentOrder(t *testing.T) {
	root := Element("div").Append(
		Element("label", A("for", "x")),
		Element("div").Append(Element("select", A("id", "s"))),
		Element("input", A("id", "i")),
	)

	got := root.Query("input,textarea,select")
	if got == nil || got.AttrValue("id") != "s" {
		t.Fatalf("expected nested select first, got %#v", got)
	}
	if root.Query("button") != nil {
		t.Fatalf("expected no button match")
	}
	if len(root.QueryAll("input,select")) != 2 {
		t.Fatalf("expected two controls")
	}
}

func TestSelector_CompoundParts(t *testing.T) {
	node := Element("div", A("class", "field-wrapper col-6"), A("data-visible", "false"), A("id", "w"))

	cases := map[string]bool{
		"div.field-wrapper":         true,
		".col-6.field-wrapper":      true,
		"#w":                        true,
		"div#w.col-6":               true,
		"[data-visible]":            true,
		"[data-visible=false]":      true,
		"[data-visible='true']":     false,
		"span.field-wrapper":        false,
		"span, .missing, div.col-6": true,
	}
	for sel, want := range cases {
		if got := ParseSelector(sel).Match(node); got != want {
			t.Errorf("selector %q: want %v, got %v", sel, want, got)
		}
	}
}

func TestClassesAndData(t *testing.T) {
	node := Element("input")
	node.AddClass("a b", "a", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, node.Classes()); diff != "" {
		t.Fatalf("class mismatch (-want +got):\n%s", diff)
	}
	node.RemoveClass("b")
	if node.HasClass("b") {
		t.Fatalf("expected class b removed")
	}

	node.SetData("maxItems", "3")
	if got := node.AttrValue("data-max-items"); got != "3" {
		t.Fatalf("expected data-max-items=3, got %q", got)
	}
}

func TestAppendPrependDetach(t *testing.T) {
	parent := Element("fieldset")
	a, b := Element("a"), Element("b")
	parent.Append(a, nil, b)
	legend := Element("legend")
	parent.Prepend(legend)

	var tags []string
	for _, child := range parent.Children {
		tags = append(tags, child.Tag)
	}
	if diff := cmp.Diff([]string{"legend", "a", "b"}, tags); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}

	other := Element("div")
	other.Append(a)
	if len(parent.Children) != 2 || a.Parent() != other {
		t.Fatalf("expected a to move to the new parent")
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	root := Element("div", A("class", "text-wrapper")).Append(
		Element("label", A("for", "name")).Append(TextNode("Name & title")),
		Element("input", A("id", "name"), A("required", "")),
	)

	got := HTML(root)
	want := `<div class="text-wrapper"><label for="name">Name &amp; title</label><input id="name" required=""/></div>`
	if got != want {
		t.Fatalf("html mismatch:\nwant %s\ngot  %s", want, got)
	}

	nodes, err := ParseFragment(`<p>Hello <b>world</b></p>`)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	if len(nodes) != 1 || nodes[0].TextContent() != "Hello world" {
		t.Fatalf("unexpected fragment: %#v", nodes)
	}
}

func TestBindingsAreNotCloned(t *testing.T) {
	node := Element("input", A("value", "x"))
	node.Bind("state", 1)
	clone := node.Clone()
	if _, ok := clone.Binding("state"); ok {
		t.Fatalf("expected bindings to stay on the original node")
	}
	if clone.AttrValue("value") != "x" {
		t.Fatalf("expected attributes to be cloned")
	}
}

package jsontree_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/renderers/jsontree"
	"github.com/goliatone/go-formrender/pkg/testsupport"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const definition = `{
  "id": "login",
  "fieldType": "form",
  ":itemsOrder": ["user"],
  ":items": {
    "user": {"id": "f-user", "name": "user", "fieldType": "text-input", "label": {"value": "User"}}
  }
}`

type node struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs"`
	Text     string            `json:"text"`
	Children []node            `json:"children"`
}

type document struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Tree        node                `json:"tree"`
	FieldErrors map[string][]string `json:"fieldErrors"`
	FormErrors  []string            `json:"formErrors"`
}

func TestRenderer_EncodesTree(t *testing.T) {
	def := testsupport.MustDefinition(t, definition)
	tree := ui.Element("form", ui.A("id", "login"))
	if err := render.NewEngine().Render(context.Background(), def, tree, "login", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	form := render.Form{ID: "login", Definition: def, Tree: tree}
	before := ui.HTML(tree)

	renderer := jsontree.New(jsontree.WithIndent("  "))
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Title:  "Sign in",
		Errors: map[string][]string{"user": {"Unknown user"}, "form": {"Locked"}},
		Hidden: []render.HiddenField{render.Hidden("next", "/home")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.ID != "login" || doc.Title != "Sign in" || doc.Tree.Tag != "form" {
		t.Fatalf("unexpected document header %+v", doc)
	}
	if diff := cmp.Diff(map[string][]string{"f-user": {"Unknown user"}}, doc.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Locked"}, doc.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	last := doc.Tree.Children[len(doc.Tree.Children)-1]
	if last.Tag != "input" || last.Attrs["name"] != "next" || last.Attrs["value"] != "/home" {
		t.Fatalf("expected hidden input last, got %+v", last)
	}
	if ui.HTML(tree) != before {
		t.Fatalf("render must not modify the form tree")
	}
}

func TestRenderer_RequiresTree(t *testing.T) {
	if _, err := jsontree.New().Render(context.Background(), render.Form{ID: "x"}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for missing tree")
	}
}

func controls(n node, out []string) []string {
	switch n.Tag {
	case "input", "select", "textarea", "button":
		if id := n.Attrs["id"]; id != "" {
			out = append(out, n.Tag+"#"+id)
		}
	}
	for _, child := range n.Children {
		out = controls(child, out)
	}
	return out
}

func TestRenderer_ContactFixture(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, filepath.Join("..", "..", "..", "examples", "fixtures", "contact.json"))
	tree := ui.Element("form", ui.A("id", "contact"))
	if err := render.NewEngine().Render(testsupport.Context(), def, tree, "contact", nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, err := jsontree.New().Render(testsupport.Context(), render.Form{ID: "contact", Definition: def, Tree: tree}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var doc document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}

	want := []string{
		"input#name",
		"input#email",
		"select#topic",
		"textarea#message",
		"input#newsletter",
		"button#submit",
	}
	if diff := testsupport.CompareGolden(want, controls(doc.Tree, nil)); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

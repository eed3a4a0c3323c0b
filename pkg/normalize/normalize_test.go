package normalize

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

func alternateFixture() map[string]any {
	return map[string]any{
		"id":        "form",
		"fieldType": "form",
		"items": []any{
			map[string]any{"id": "name", "fieldType": "text-input"},
			map[string]any{
				"id":        "details",
				"fieldType": "panel",
				"items": []any{
					map[string]any{"id": "dob", "fieldType": "date", "dataRef": "foo"},
					map[string]any{"id": "when", "fieldType": "date"},
				},
			},
			map[string]any{"id": "empty", "fieldType": "panel", "items": []any{}},
		},
	}
}

func TestNormalize_ReshapesItems(t *testing.T) {
	n := MustNew()
	input := alternateFixture()
	out := n.Normalize(input)

	if _, ok := out["items"]; ok {
		t.Fatalf("expected items array to be removed")
	}
	if diff := cmp.Diff([]any{"name", "details", "empty"}, out[":itemsOrder"]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	items := out[":items"].(map[string]any)
	empty := items["empty"].(map[string]any)
	if _, ok := empty[":items"]; ok {
		t.Fatalf("expected empty items to be dropped")
	}
	if _, ok := empty["items"]; ok {
		t.Fatalf("expected empty items array to be removed")
	}

	field, err := formdef.FromMap(out)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if err := field.Validate(); err != nil {
		t.Fatalf("normalized tree breaks the order invariant: %v", err)
	}

	if _, ok := input[":items"]; ok {
		t.Fatalf("input must not be modified")
	}
}

func TestNormalize_DateTemplateAndBind(t *testing.T) {
	n := MustNew()
	out := n.Normalize(alternateFixture())

	store, err := DefaultStore()
	if err != nil {
		t.Fatalf("default store: %v", err)
	}
	want, ok := store.Template(KindDateTimeField)
	if !ok {
		t.Fatalf("expected embedded datetimefield template")
	}

	details := out[":items"].(map[string]any)["details"].(map[string]any)
	when := details[":items"].(map[string]any)["when"].(map[string]any)
	if diff := cmp.Diff(want, dorContainer(t, when)); diff != "" {
		t.Fatalf("date container mismatch (-want +got):\n%s", diff)
	}

	dob := details[":items"].(map[string]any)["dob"].(map[string]any)
	bound := dorContainer(t, dob)
	if diff := cmp.Diff(map[string]any{"ref": "foo", "match": "dataRef"}, bound["bind"]); diff != "" {
		t.Fatalf("bind mismatch (-want +got):\n%s", diff)
	}
	delete(bound, "bind")
	if diff := cmp.Diff(want, bound); diff != "" {
		t.Fatalf("bound container differs from template beyond bind (-want +got):\n%s", diff)
	}

	if _, ok := dorContainer(t, when)["bind"]; ok {
		t.Fatalf("bind leaked between fields sharing a template")
	}

	name := out[":items"].(map[string]any)["name"].(map[string]any)
	if _, ok := name["properties"]; ok {
		t.Fatalf("unmapped field types must not receive a container")
	}
}

func TestNormalize_PageTemplateAtRootOnly(t *testing.T) {
	out := MustNew().Normalize(alternateFixture())
	props := out["properties"].(map[string]any)
	dor := props["fd:dor"].(map[string]any)
	if _, ok := dor["pageTemplate"]; !ok {
		t.Fatalf("expected page template at root")
	}
	details := out[":items"].(map[string]any)["details"].(map[string]any)
	if _, ok := details["properties"]; ok {
		t.Fatalf("page template must not be attached below the root")
	}

	out = MustNew(WithoutPageTemplate()).Normalize(alternateFixture())
	if _, ok := out["properties"]; ok {
		t.Fatalf("expected no page template when disabled")
	}
}

func TestNormalize_IdempotentOnCanonical(t *testing.T) {
	n := MustNew()
	canonical := map[string]any{
		"id":          "form",
		":itemsOrder": []any{"a"},
		":items": map[string]any{
			"a": map[string]any{"id": "a", "fieldType": "date", "value": float64(1)},
		},
	}
	once := n.Normalize(canonical)
	twice := n.Normalize(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("normalize is not idempotent (-once +twice):\n%s", diff)
	}

	normalizedOnce := n.Normalize(alternateFixture())
	if diff := cmp.Diff(normalizedOnce, n.Normalize(normalizedOnce)); diff != "" {
		t.Fatalf("normalize of normalized output changed it (-want +got):\n%s", diff)
	}
}

func TestNormalize_DuplicateAndMissingIDs(t *testing.T) {
	out := MustNew(WithoutPageTemplate()).Normalize(map[string]any{
		"items": []any{
			map[string]any{"id": "a"},
			map[string]any{"id": "a"},
			map[string]any{"fieldType": "text"},
			"not-an-object",
		},
	})
	if diff := cmp.Diff([]any{"a", "a-1", "item-2"}, out[":itemsOrder"]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_TypedItemSlice(t *testing.T) {
	out := MustNew(WithoutPageTemplate()).Normalize(map[string]any{
		"id": "form",
		"items": []map[string]any{
			{"id": "first", "fieldType": "text-input"},
			{"id": "second", "fieldType": "email"},
		},
	})
	if _, ok := out["items"]; ok {
		t.Fatalf("expected typed items slice to be reshaped")
	}
	if diff := cmp.Diff([]any{"first", "second"}, out[":itemsOrder"]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := out[":items"].(map[string]any)["second"]; !ok {
		t.Fatalf("expected second item keyed by id")
	}
}

func TestWithTemplateKindAndLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.json": {Data: []byte(`{"templates": {"sig": {"type": "signature", "w": 10}}}`)},
		"more.yaml":   {Data: []byte("templates:\n  pageTemplate:\n    name: blank\n")},
		"README.md":   {Data: []byte("ignored")},
	}
	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"pageTemplate", "sig"}, store.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	n := MustNew(WithTemplateStore(store), WithTemplateKind("signature", "sig"))
	out := n.Normalize(map[string]any{
		"items": []any{map[string]any{"id": "s", "fieldType": "signature-input"}},
	})
	s := out[":items"].(map[string]any)["s"].(map[string]any)
	if diff := cmp.Diff(map[string]any{"type": "signature", "w": float64(10)}, dorContainer(t, s)); diff != "" {
		t.Fatalf("custom container mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_DuplicateKinds(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("templates:\n  x: {}\n")},
		"b.yaml": {Data: []byte("templates:\n  x: {}\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate template kinds to fail")
	}
}

func dorContainer(t *testing.T, item map[string]any) map[string]any {
	t.Helper()
	props, ok := item["properties"].(map[string]any)
	if !ok {
		t.Fatalf("item %v has no properties", item["id"])
	}
	dor, ok := props["fd:dor"].(map[string]any)
	if !ok {
		t.Fatalf("item %v has no fd:dor", item["id"])
	}
	container, ok := dor["dorContainer"].(map[string]any)
	if !ok {
		t.Fatalf("item %v has no dorContainer", item["id"])
	}
	return container
}

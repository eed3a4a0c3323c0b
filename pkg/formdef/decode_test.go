package formdef

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_CleansWhitespace(t *testing.T) {
	raw := []byte("{\n  \"id\": \"form\",\n  \"fieldType\":   \"form\"\n}\n")
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"id": "form", "fieldType": "form"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_DoubleEncoded(t *testing.T) {
	raw := []byte(`  "{\"id\":\"wrapped\",\"items\":[]}"  `)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] != "wrapped" {
		t.Fatalf("expected wrapped id, got %#v", got["id"])
	}
}

func TestDecode_ToleratesComments(t *testing.T) {
	raw := []byte(`{
  // generated by the authoring tool
  "id": "commented",
  "items": [
    {"id": "a", "fieldType": "text-input"},
  ],
}`)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, ok := got["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %#v", got["items"])
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json", `"[1,2]"`, "null"} {
		_, err := Decode([]byte(raw))
		if !errors.Is(err, ErrMalformedDefinition) {
			t.Errorf("Decode(%q): expected ErrMalformedDefinition, got %v", raw, err)
		}
	}
}

func TestFromMap_ColumnSpanAndChildren(t *testing.T) {
	def := map[string]any{
		"id":          "form",
		"fieldType":   "form",
		"Column Span": float64(6),
		":itemsOrder": []any{"name"},
		":items": map[string]any{
			"name": map[string]any{
				"id":        "name",
				"fieldType": "text-input",
				"visible":   false,
				"label":     map[string]any{"value": "Name"},
			},
		},
	}
	field, err := FromMap(def)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if field.ColumnSpan != float64(6) {
		t.Fatalf("expected column span 6, got %#v", field.ColumnSpan)
	}
	children := field.OrderedChildren()
	if len(children) != 1 || children[0].LabelText() != "Name" || !children[0].Hidden() {
		t.Fatalf("unexpected children: %#v", children)
	}

	back, err := field.ToMap()
	if err != nil {
		t.Fatalf("to map: %v", err)
	}
	if back["Column Span"] != float64(6) {
		t.Fatalf("expected Column Span to round trip, got %#v", back["Column Span"])
	}
}

func TestShapeDetection(t *testing.T) {
	alt := map[string]any{"items": []any{map[string]any{"id": "a"}}}
	if !IsAlternateShape(alt) {
		t.Fatalf("expected items array to be alternate shape")
	}
	if !IsAlternateShape(map[string]any{"items": []map[string]any{{"id": "a"}}}) {
		t.Fatalf("expected typed items slice to be alternate shape")
	}
	canonical := map[string]any{":items": map[string]any{}, "items": []any{}}
	if IsAlternateShape(canonical) {
		t.Fatalf("expected :items to win over items")
	}
	sheet := map[string]any{":type": "sheet", "data": []any{}}
	if !IsDocumentBased(sheet) {
		t.Fatalf("expected sheet to be document based")
	}
	if IsDocumentBased(map[string]any{":type": "sheet"}) {
		t.Fatalf("sheet without data is not document based")
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{float64(10), "10"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{"a", float64(2)}, "a,2"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package formdef

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrderedChildren_FollowsItemsOrder(t *testing.T) {
	root := &Field{
		Items: map[string]*Field{
			"a": {ID: "a"},
			"b": {ID: "b"},
			"c": {ID: "c"},
		},
		ItemsOrder: []string{"c", "a", "b"},
	}

	var got []string
	for _, child := range root.OrderedChildren() {
		got = append(got, child.ID)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, got); diff != "" {
		t.Fatalf("children order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Permutation(t *testing.T) {
	cases := []struct {
		name  string
		field *Field
		want  *InvariantError
	}{
		{
			name: "valid",
			field: &Field{
				Items:      map[string]*Field{"a": {}, "b": {}},
				ItemsOrder: []string{"b", "a"},
			},
		},
		{
			name: "missing",
			field: &Field{
				Items:      map[string]*Field{"a": {}},
				ItemsOrder: []string{"a", "ghost"},
			},
			want: &InvariantError{Missing: []string{"ghost"}},
		},
		{
			name: "extra",
			field: &Field{
				Items:      map[string]*Field{"a": {}, "b": {}},
				ItemsOrder: []string{"a"},
			},
			want: &InvariantError{Extra: []string{"b"}},
		},
		{
			name: "duplicate",
			field: &Field{
				Items:      map[string]*Field{"a": {}},
				ItemsOrder: []string{"a", "a"},
			},
			want: &InvariantError{Duplicate: []string{"a"}},
		},
		{
			name: "nested",
			field: &Field{
				Items: map[string]*Field{
					"panel": {
						FieldType:  FieldTypePanel,
						Items:      map[string]*Field{"x": {}},
						ItemsOrder: []string{},
					},
				},
				ItemsOrder: []string{"panel"},
			},
			want: &InvariantError{Path: "panel", Extra: []string{"x"}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.field.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invErr *InvariantError
			if !errors.As(err, &invErr) {
				t.Fatalf("expected InvariantError, got %v", err)
			}
			if diff := cmp.Diff(tc.want, invErr); diff != "" {
				t.Fatalf("invariant mismatch (-want +got):\n%s", diff)
			}
			if !errors.Is(err, ErrMalformedDefinition) {
				t.Fatalf("expected error to wrap ErrMalformedDefinition")
			}
		})
	}
}

func TestRenderType(t *testing.T) {
	cases := map[string]string{
		"":               "text",
		"email-input":    "email",
		"text-input":     "text",
		"drop-down":      "drop-down",
		"number-input":   "number",
		"checkbox-group": "checkbox-group",
		"date-input":     "date",
		"file-input":     "file",
		"unknown-type":   "unknown-type",
	}
	for in, want := range cases {
		if got := (&Field{FieldType: in}).RenderType(); got != want {
			t.Errorf("RenderType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCoerceValue(t *testing.T) {
	field := &Field{}
	field.CoerceValue()
	if field.Value != "" {
		t.Fatalf("expected empty string, got %#v", field.Value)
	}

	field = &Field{Value: float64(3)}
	field.CoerceValue()
	if field.StringValue() != "3" {
		t.Fatalf("expected value to be preserved, got %q", field.StringValue())
	}
}

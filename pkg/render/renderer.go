package render

import (
	"context"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Form is a finished render: the <form> element and the definition it was
// built from.
type Form struct {
	ID         string
	Definition *formdef.Field
	Tree       *ui.Node
}

// Control returns the rendered control with the given id, or nil.
func (f Form) Control(id string) *ui.Node {
	if f.Tree == nil || id == "" {
		return nil
	}
	var found *ui.Node
	f.Tree.Walk(func(n *ui.Node) bool {
		if found != nil {
			return false
		}
		if !n.IsText() && n.AttrValue("id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Wrapper returns the field wrapper around the control with the given id.
func (f Form) Wrapper(id string) *ui.Node {
	control := f.Control(id)
	if control == nil {
		return nil
	}
	return control.Closest(".field-wrapper")
}

// Renderer converts a rendered form into bytes (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}

// Package jsontree serializes a rendered form as a JSON document: the element
// tree as nested {tag, attrs, text, children} nodes plus the field errors that
// were applied to it. Client-side renderers hydrate from this payload.
package jsontree

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the payload with the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer implements render.Renderer with JSON output.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a JSON tree renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type payload struct {
	ID          string              `json:"id"`
	Title       string              `json:"title,omitempty"`
	Lang        string              `json:"lang,omitempty"`
	Theme       string              `json:"theme,omitempty"`
	Variant     string              `json:"variant,omitempty"`
	Tree        *ui.Node            `json:"tree"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	FormErrors  []string            `json:"formErrors,omitempty"`
}

// Render encodes a copy of the form tree with errors and hidden inputs
// applied.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form.Tree == nil {
		return nil, fmt.Errorf("jsontree: form %q has no tree", form.ID)
	}

	working := render.Form{ID: form.ID, Definition: form.Definition, Tree: form.Tree.Clone()}
	out := payload{ID: form.ID, Title: options.Title, Lang: options.Lang, Tree: working.Tree}
	if len(options.Errors) > 0 {
		mapping := render.ApplyErrors(working, options.Errors)
		out.FieldErrors = mapping.Fields
		out.FormErrors = mapping.Form
	}
	render.AppendHidden(working.Tree, options.Hidden...)
	if options.Theme != nil {
		out.Theme = options.Theme.Theme
		out.Variant = options.Theme.Variant
	}

	var (
		data []byte
		err  error
	)
	if r.indent != "" {
		data, err = json.MarshalIndent(out, "", r.indent)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("jsontree: encode: %w", err)
	}
	return data, nil
}

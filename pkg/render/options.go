package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers use to shape their
// output without touching the rendered tree.
type RenderOptions struct {
	// Page wraps the form in a complete HTML document.
	Page bool
	// Title is the document title when Page is set; defaults to the form
	// title or its id.
	Title string
	// Lang sets the document language when Page is set.
	Lang string
	// Theme carries the resolved theme tokens, partial overrides and asset
	// resolver.
	Theme *theme.RendererConfig
	// Errors surfaces server-side validation messages keyed by field path.
	// See ApplyErrors.
	Errors map[string][]string
	// Hidden inputs appended to the form before output.
	Hidden []HiddenField
}

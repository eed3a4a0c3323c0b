package orchestrator

import (
	"context"
	"errors"

	"github.com/goliatone/go-formrender/pkg/captcha"
	"github.com/goliatone/go-formrender/pkg/render"
)

// Result is one generated form.
type Result struct {
	// Form is the finished render. Its Tree is nil when the definition was
	// malformed.
	Form render.Form
	// Output holds the renderer bytes.
	Output      []byte
	ContentType string
	Renderer    string

	// Captcha is the attached widget, if the form has one.
	Captcha captcha.Captcha
	// Rules is the rule engine bound to Form.Tree, if rules were loaded.
	Rules RuleEngine

	// Malformed records why nothing was rendered.
	Malformed error

	orchestrator *Orchestrator
	request      Request
}

// Empty reports whether nothing was rendered.
func (r *Result) Empty() bool {
	return r == nil || r.Form.Tree == nil
}

// Reset discards the form and generates a fresh one from the same request,
// the way a form reset re-creates the rendition.
func (r *Result) Reset(ctx context.Context) (*Result, error) {
	if r == nil || r.orchestrator == nil {
		return nil, errors.New("orchestrator: result is not bound to an orchestrator")
	}
	return r.orchestrator.Generate(ctx, r.request)
}

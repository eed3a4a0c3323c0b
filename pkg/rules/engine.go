package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/goliatone/go-formrender/internal/ctxlog"
	"github.com/goliatone/go-formrender/pkg/captcha"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const captchaSelector = ".captcha-wrapper"

// RenderFunc renders the form again from its definition with data as
// prefill, returning the fresh <form> tree.
type RenderFunc func(ctx context.Context, data map[string]any) (*ui.Node, error)

// EvalError reports a rule that failed to parse or evaluate.
type EvalError struct {
	FieldID string
	Rule    string
	Err     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("rules: field %q rule %s: %v", e.FieldID, e.Rule, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the context logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithoutPrefill leaves control values as rendered and only evaluates rules.
func WithoutPrefill() Option {
	return func(e *Engine) {
		e.prefill = false
	}
}

// Engine applies a definition's `visible`, `enabled` and `required` rules to
// a rendered form and prefills controls from submitted data. One Engine is
// bound to one form by Initialize.
type Engine struct {
	evaluator Evaluator
	logger    *slog.Logger
	prefill   bool

	mu         sync.Mutex
	definition *formdef.Field
	form       *ui.Node
	captcha    captcha.Captcha
	render     RenderFunc
}

// New creates an engine evaluating rules with evaluator.
func New(evaluator Evaluator, opts ...Option) (*Engine, error) {
	if evaluator == nil {
		return nil, errors.New("rules: evaluator is required")
	}
	e := &Engine{evaluator: evaluator, prefill: true}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Initialize binds the engine to form and applies every rule once. Rule
// failures do not stop the remaining rules; they are returned joined.
// captchaHandle and renderer may be nil.
func (e *Engine) Initialize(ctx context.Context, definition *formdef.Field, form *ui.Node, captchaHandle captcha.Captcha, renderer RenderFunc, data map[string]any) error {
	if definition == nil || form == nil {
		return errors.New("rules: definition and form are required")
	}
	e.mu.Lock()
	e.definition, e.form, e.captcha, e.render = definition, form, captchaHandle, renderer
	e.mu.Unlock()
	return e.apply(ctx, definition, form, captchaHandle, data)
}

// Update re-applies the rules against new data without rendering again.
func (e *Engine) Update(ctx context.Context, data map[string]any) error {
	e.mu.Lock()
	definition, form, handle := e.definition, e.form, e.captcha
	e.mu.Unlock()
	if form == nil {
		return errors.New("rules: engine is not initialized")
	}
	return e.apply(ctx, definition, form, handle, data)
}

// Rerender renders a fresh form through the bound RenderFunc and rebinds the
// engine to it.
func (e *Engine) Rerender(ctx context.Context, data map[string]any) (*ui.Node, error) {
	e.mu.Lock()
	definition, handle, renderFn := e.definition, e.captcha, e.render
	e.mu.Unlock()
	if renderFn == nil {
		return nil, errors.New("rules: no renderer bound")
	}
	form, err := renderFn(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("rules: rerender: %w", err)
	}
	e.mu.Lock()
	e.form = form
	e.mu.Unlock()
	return form, e.apply(ctx, definition, form, handle, data)
}

func (e *Engine) apply(ctx context.Context, definition *formdef.Field, form *ui.Node, handle captcha.Captcha, data map[string]any) error {
	logger := e.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	scope := Scope{Values: Values(definition, data), Extras: data}
	rendered := render.Form{Definition: definition, Tree: form}

	var errs []error
	fields := Flatten(definition)
	for _, entry := range fields {
		if e.prefill && !entry.Field.IsPanel() {
			if value, ok := lookupData(data, entry); ok {
				Prefill(rendered.Wrapper(entry.Field.ID), value)
			}
		}
		if len(entry.Field.Rules) == 0 {
			continue
		}
		target := rendered.Wrapper(entry.Field.ID)
		if entry.Field.IsCaptcha() && handle != nil {
			target = form.Query(captchaSelector)
		}
		if target == nil {
			logger.DebugContext(ctx, "rules target missing", "field", entry.Field.ID)
			continue
		}
		for _, name := range ruleNames(entry.Field.Rules) {
			rule := entry.Field.Rules[name]
			ok, err := e.evaluator.Eval(entry.Field.ID, rule, scope)
			if err != nil {
				errs = append(errs, &EvalError{FieldID: entry.Field.ID, Rule: name, Err: err})
				continue
			}
			applyRule(name, ok, target)
		}
	}
	if len(errs) > 0 {
		logger.WarnContext(ctx, "rules evaluation failed", "failures", len(errs))
	}
	logger.DebugContext(ctx, "rules applied", "fields", len(fields))
	return errors.Join(errs...)
}

func ruleNames(rules map[string]string) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyRule(name string, ok bool, wrapper *ui.Node) {
	switch name {
	case RuleVisible:
		wrapper.SetData("visible", strconv.FormatBool(ok))
	case RuleEnabled:
		for _, control := range controls(wrapper) {
			control.SetFlag("disabled", !ok)
		}
		wrapper.SetData("enabled", strconv.FormatBool(ok))
	case RuleRequired:
		for _, control := range controls(wrapper) {
			if ok {
				control.SetAttr("required", "required")
			} else {
				control.RemoveAttr("required")
			}
		}
		wrapper.SetData("required", strconv.FormatBool(ok))
	}
}

func controls(wrapper *ui.Node) []*ui.Node {
	return collect(wrapper, "input,select,textarea,button")
}

func collect(wrapper *ui.Node, selector string) []*ui.Node {
	out := wrapper.QueryAll(selector)
	if isControl(wrapper) {
		out = append([]*ui.Node{wrapper}, out...)
	}
	return out
}

func isControl(n *ui.Node) bool {
	switch n.Tag {
	case "input", "select", "textarea", "button":
		return true
	}
	return false
}

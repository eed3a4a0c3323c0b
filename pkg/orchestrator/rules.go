package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-formrender/internal/ctxlog"
	"github.com/goliatone/go-formrender/pkg/captcha"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/rules"
	"github.com/goliatone/go-formrender/pkg/rules/expr"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// RuleEngine binds dynamic behaviour to a finished run-time form.
type RuleEngine interface {
	Initialize(ctx context.Context, definition *formdef.Field, form *ui.Node, captchaHandle captcha.Captcha, renderer rules.RenderFunc, data map[string]any) error
}

// RuleEngineLoader produces a rule engine. It is called at most once per
// run-time Generate, after the configured rule delay.
type RuleEngineLoader func(ctx context.Context) (RuleEngine, error)

// DefaultRuleEngineLoader evaluates visible/enabled/required rules with the
// built-in expression language.
func DefaultRuleEngineLoader(ctx context.Context) (RuleEngine, error) {
	engine, err := rules.New(expr.New(), rules.WithLogger(ctxlog.FromContext(ctx)))
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// loadRules waits for the rule delay, loads the engine and initialises it.
// Loader and rule failures are logged; only cancellation aborts.
func (o *Orchestrator) loadRules(ctx context.Context, def *formdef.Field, form *ui.Node, handle captcha.Captcha, renderer rules.RenderFunc, data map[string]any) (RuleEngine, error) {
	logger := ctxlog.FromContext(ctx)
	if o.ruleDelay > 0 {
		timer := time.NewTimer(o.ruleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	engine, err := o.ruleLoader(ctx)
	if err != nil {
		logger.WarnContext(ctx, "rule engine unavailable", "error", err)
		return nil, nil
	}
	if engine == nil {
		return nil, nil
	}
	if err := engine.Initialize(ctx, def, form, handle, renderer, data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("orchestrator: initialize rules: %w", ctxErr)
		}
		logger.WarnContext(ctx, "rule engine reported failures", "form", def.ID, "error", err)
	}
	return engine, nil
}

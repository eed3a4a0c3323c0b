package render

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formrender/internal/ctxlog"
	"github.com/goliatone/go-formrender/pkg/builders"
	"github.com/goliatone/go-formrender/pkg/decorate"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// CaptchaPlaceholderText is the content of the node emitted in place of a
// CAPTCHA field; the widget itself is attached after the render.
const CaptchaPlaceholderText = "CAPTCHA"

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBuilders replaces the builder registry.
func WithBuilders(reg *builders.Registry) EngineOption {
	return func(e *Engine) {
		if reg != nil {
			e.builders = reg
		}
	}
}

// WithPipeline replaces the field decoration pipeline.
func WithPipeline(p decorate.Pipeline) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// WithEnricher sets the enrichment hook.
func WithEnricher(enricher Enricher) EngineOption {
	return func(e *Engine) {
		if enricher != nil {
			e.enricher = enricher
		}
	}
}

// WithRepeatGroup sets the collaborator receiving add/remove control
// requests.
func WithRepeatGroup(group RepeatGroup) EngineOption {
	return func(e *Engine) {
		e.repeat = group
	}
}

// WithLogger sets the engine logger. Without one the engine logs to the
// logger carried by the context, if any.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConcurrency caps the number of children of one container built at the
// same time. Zero or negative means unlimited.
func WithConcurrency(limit int) EngineOption {
	return func(e *Engine) {
		e.limit = limit
	}
}

// Engine renders definitions into UI trees. It holds no per-render state and
// may be shared.
type Engine struct {
	builders *builders.Registry
	pipeline decorate.Pipeline
	enricher Enricher
	repeat   RepeatGroup
	logger   *slog.Logger
	limit    int
}

// NewEngine returns an engine with the built-in builders and pipeline.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		builders: builders.NewRegistry(),
		pipeline: decorate.Default(),
		enricher: NopEnricher{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// RepeatGroup returns the configured repeat collaborator, possibly nil.
func (e *Engine) RepeatGroup() RepeatGroup {
	return e.repeat
}

// Render appends the rendered children of node to container, then finalises
// the container and enriches it. A nil extractor reads :items/:itemsOrder.
// The session stored in ctx (see WithSession) receives the CAPTCHA field;
// one is created when absent. The first failing child cancels its siblings
// and its error is returned; container is left untouched in that case.
func (e *Engine) Render(ctx context.Context, node *formdef.Field, container *ui.Node, formID string, extract ChildExtractor) error {
	if node == nil || container == nil {
		return fmt.Errorf("render: node and container are required")
	}
	if extract == nil {
		extract = OrderedChildren
	}
	ctx, session := ensureSession(ctx)
	logger := e.log(ctx)

	children := extract(node)
	logger.DebugContext(ctx, "render container",
		"session", session.ID, "form", formID, "container", node.ID, "children", len(children))

	results := make([]*ui.Node, len(children))
	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.renderChild(gctx, session, child, container, formID, extract)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.DebugContext(ctx, "render container failed", "container", node.ID, "error", err)
		return err
	}

	for _, out := range results {
		if out != nil {
			container.Append(out)
		}
	}
	decorate.PanelContainer(node, container, e.repeat)
	if err := e.enricher.Enrich(ctx, container, node, nil, formID); err != nil {
		return &EnrichError{FieldID: node.ID, Container: true, Err: err}
	}
	return nil
}

func (e *Engine) renderChild(ctx context.Context, session *Session, child *formdef.Field, parent *ui.Node, formID string, extract ChildExtractor) (*ui.Node, error) {
	if child == nil {
		return nil, nil
	}
	child.CoerceValue()

	if child.IsCaptcha() {
		if err := session.SetCaptcha(child); err != nil {
			return nil, err
		}
		placeholder := builders.Wrapper(child)
		placeholder.SetText(CaptchaPlaceholderText)
		return placeholder, nil
	}

	node, err := e.builders.Build(child)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	e.pipeline.Apply(child, node)

	if child.IsPanel() {
		decorate.RepeatablePanel(child, node, e.repeat)
		if err := e.Render(ctx, child, node, formID, extract); err != nil {
			return nil, err
		}
		return node, nil
	}

	if err := e.enricher.Enrich(ctx, node, child, parent, formID); err != nil {
		return nil, &EnrichError{FieldID: child.ID, Err: err}
	}
	return node, nil
}

func (e *Engine) log(ctx context.Context) *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return ctxlog.FromContext(ctx)
}

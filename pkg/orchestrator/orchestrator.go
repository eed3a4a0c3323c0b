package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender/internal/ctxlog"
	"github.com/goliatone/go-formrender/internal/loader"
	internalParser "github.com/goliatone/go-formrender/internal/openapi/parser"
	"github.com/goliatone/go-formrender/pkg/captcha"
	"github.com/goliatone/go-formrender/pkg/components"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/normalize"
	pkgopenapi "github.com/goliatone/go-formrender/pkg/openapi"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/renderers/jsontree"
	"github.com/goliatone/go-formrender/pkg/renderers/tui"
	"github.com/goliatone/go-formrender/pkg/renderers/vanilla"
	"github.com/goliatone/go-formrender/pkg/repeat"
)

const defaultRendererName = "vanilla"

// Mode selects how much of the run-time finishing is applied.
type Mode string

const (
	// ModeRuntime renders a live form: CAPTCHA, validation wiring,
	// repeatable transfer and rules.
	ModeRuntime Mode = "runtime"
	// ModeAuthoring renders the bare tree for editors.
	ModeAuthoring Mode = "authoring"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom definition loader.
func WithLoader(loader formdef.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithLoaderOptions configures the built-in loader.
func WithLoaderOptions(options ...formdef.LoaderOption) Option {
	return func(o *Orchestrator) {
		o.loader = loader.New(formdef.NewLoaderOptions(options...))
	}
}

// WithParser injects the OpenAPI parser used by the openapi adapter.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithAdapters replaces the format adapter registry.
func WithAdapters(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = registry
	}
}

// WithNormalizer replaces the alternate-shape normalizer.
func WithNormalizer(normalizer *normalize.Normalizer) Option {
	return func(o *Orchestrator) {
		o.normalizer = normalizer
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithEngine replaces the rendering engine.
func WithEngine(engine *render.Engine) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithEngineOptions configures the built-in rendering engine. They apply on
// top of the defaults (component registry enricher, repeat group).
func WithEngineOptions(options ...render.EngineOption) Option {
	return func(o *Orchestrator) {
		o.engineOptions = append(o.engineOptions, options...)
	}
}

// WithSchemaTransformer registers a Transformer that runs on the canonical
// definition before validation.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithCaptchaFactory replaces the CAPTCHA widget factory.
func WithCaptchaFactory(factory captcha.Factory) Option {
	return func(o *Orchestrator) {
		o.captchaFactory = factory
	}
}

// WithRuleEngineLoader replaces the rule engine loader. Pass nil to disable
// rules entirely.
func WithRuleEngineLoader(loader RuleEngineLoader) Option {
	return func(o *Orchestrator) {
		o.ruleLoader = loader
	}
}

// WithRuleDelay postpones rule engine loading in run-time mode.
func WithRuleDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		o.ruleDelay = delay
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultTheme sets the theme and variant used when a request names
// none.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithThemeFallbacks sets partials used when a theme does not override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		if len(fallbacks) == 0 {
			return
		}
		o.themeFallbacks = make(map[string]string, len(fallbacks))
		for key, value := range fallbacks {
			o.themeFallbacks[key] = value
		}
	}
}

// WithLogger sets the pipeline logger. Without one the logger carried by the
// request context is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the full pipeline from definition source to
// rendered output. Missing collaborators are filled with the built-in
// implementations.
type Orchestrator struct {
	loader          formdef.Loader
	parser          pkgopenapi.Parser
	adapters        *AdapterRegistry
	normalizer      *normalize.Normalizer
	transformer     Transformer
	engine          *render.Engine
	engineOptions   []render.EngineOption
	registry        *render.Registry
	defaultRenderer string
	captchaFactory  captcha.Factory
	ruleLoader      RuleEngineLoader
	ruleDelay       time.Duration
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		ruleLoader:      DefaultRuleEngineLoader,
		themeFallbacks:  defaultThemeFallbacks(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = loader.New(formdef.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.adapters == nil {
		o.adapters = NewAdapterRegistry()
		o.adapters.MustRegister(SheetAdapter{})
		o.adapters.MustRegister(OpenAPIAdapter{Parser: o.parser})
	}
	if o.normalizer == nil {
		normalizer, err := normalize.New()
		if err != nil {
			o.initialiseErr = errors.Join(o.initialiseErr, fmt.Errorf("orchestrator: normalizer: %w", err))
		}
		o.normalizer = normalizer
	}
	if o.engine == nil {
		defaults := []render.EngineOption{
			render.WithEnricher(components.NewRegistry()),
			render.WithRepeatGroup(repeat.New()),
		}
		o.engine = render.NewEngine(append(defaults, o.engineOptions...)...)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		if html, err := vanilla.New(); err != nil {
			o.initialiseErr = errors.Join(o.initialiseErr, fmt.Errorf("orchestrator: vanilla renderer: %w", err))
		} else {
			o.registry.MustRegister(html)
		}
		o.registry.MustRegister(jsontree.New())
		if prompts, err := tui.New(); err == nil {
			o.registry.MustRegister(prompts)
		}
	}
}

// Request describes one form to generate. Exactly one of Definition,
// Document and Source is needed; they are consulted in that order.
type Request struct {
	// Source identifies where the definition lives.
	Source formdef.Source
	// Document bypasses the loader with an already fetched payload.
	Document *formdef.Document
	// Definition bypasses loading and decoding.
	Definition map[string]any

	// Format forces a format adapter ("sheet", "openapi"). Detected when
	// empty.
	Format string
	// OperationID selects the OpenAPI operation; optional when the document
	// has a single one.
	OperationID string

	// Mode defaults to ModeRuntime.
	Mode Mode
	// Data prefills run-time controls through the rule engine.
	Data map[string]any

	// Renderer names the output renderer; defaults to the configured one.
	Renderer string
	// RenderOptions carries per-request output instructions.
	RenderOptions render.RenderOptions

	ThemeName    string
	ThemeVariant string
}

// Generate runs load → adapt → normalize → render → finish → output.
// A malformed definition is not an error: the Result carries no form and
// no output, and the cause is logged.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = ModeRuntime
	}
	if req.Mode != ModeRuntime && req.Mode != ModeAuthoring {
		return nil, fmt.Errorf("orchestrator: unknown mode %q", req.Mode)
	}

	logger := o.log(ctx)
	ctx = ctxlog.WithLogger(ctx, logger)
	result := &Result{orchestrator: o, request: req}

	def, meta, err := o.resolveDefinition(ctx, req)
	if errors.Is(err, formdef.ErrMalformedDefinition) {
		logger.WarnContext(ctx, "malformed form definition, nothing rendered", "error", err)
		result.Malformed = err
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	finished, err := o.finish(ctx, def, meta, req)
	if err != nil {
		return nil, err
	}
	result.Form = finished.form
	result.Captcha = finished.captcha
	result.Rules = finished.rules

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	options := req.RenderOptions
	cfg, err := o.themeConfig(req)
	if err != nil {
		return nil, err
	}
	options.Theme = cfg

	output, err := renderer.Render(ctx, result.Form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
	}
	result.Output = output
	result.Renderer = renderer.Name()
	result.ContentType = renderer.ContentType()

	logger.DebugContext(ctx, "form generated",
		"form", result.Form.ID, "mode", string(req.Mode), "renderer", renderer.Name(), "bytes", len(output))
	return result, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (*formdef.Field, formMeta, error) {
	meta := formMeta{source: SourceNative, rules: true}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, meta, err
	}
	meta.location = doc.Location()

	var (
		raw       map[string]any
		decodeErr error
	)
	if req.Definition != nil {
		raw, _ = normalize.DeepCopy(req.Definition).(map[string]any)
	} else {
		raw, decodeErr = doc.Decode()
	}

	in := AdaptInput{Document: doc, Definition: raw, OperationID: req.OperationID}
	adapter, err := o.adapters.resolve(req.Format, in)
	if err != nil {
		return nil, meta, err
	}
	if adapter == nil && decodeErr != nil {
		return nil, meta, fmt.Errorf("orchestrator: decode %s: %w", meta.location, decodeErr)
	}
	if adapter != nil {
		adapted, err := adapter.Adapt(ctx, in)
		if err != nil {
			return nil, meta, err
		}
		raw = adapted.Definition
		if adapted.Source != "" {
			meta.source = adapted.Source
		}
		meta.rules = !adapted.DisableRules
	}

	if formdef.IsAlternateShape(raw) {
		raw = o.normalizer.Normalize(raw)
	}
	def, err := formdef.FromMap(raw)
	if err != nil {
		return nil, meta, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, def); err != nil {
			return nil, meta, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}
	if err := def.Validate(); err != nil {
		return nil, meta, err
	}
	return def, meta, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (formdef.Document, error) {
	switch {
	case req.Definition != nil:
		return formdef.Document{}, nil
	case req.Document != nil:
		return *req.Document, nil
	case req.Source != nil:
		if o.loader == nil {
			return formdef.Document{}, errors.New("orchestrator: loader is nil")
		}
		doc, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return formdef.Document{}, fmt.Errorf("orchestrator: load definition: %w", err)
		}
		return doc, nil
	default:
		return formdef.Document{}, errors.New("orchestrator: source, document or definition is required")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) log(ctx context.Context) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return ctxlog.FromContext(ctx)
}

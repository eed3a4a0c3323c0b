package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender/pkg/render"
	rendertemplate "github.com/goliatone/go-formrender/pkg/render/template"
	"github.com/goliatone/go-formrender/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const (
	// PageTemplate is the built-in page layout.
	PageTemplate = "templates/page"
	// PagePartial names the theme partial that replaces PageTemplate.
	PagePartial = "forms.page"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	lang             string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain templates/page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inline stylesheet used when the theme does not
// resolve one.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = css
	}
}

// WithDefaultLang sets the page language when RenderOptions.Lang is empty.
func WithDefaultLang(lang string) Option {
	return func(cfg *config) {
		if lang != "" {
			cfg.lang = lang
		}
	}
}

// Renderer writes the rendered form as HTML, either as a fragment or wrapped
// in a standalone page.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	lang       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{stylesheet: defaultStylesheet(), lang: "en"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, stylesheet: cfg.stylesheet, lang: cfg.lang}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render serializes a copy of the form tree with validation errors and hidden
// inputs applied. The form itself is left untouched.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form.Tree == nil {
		return nil, fmt.Errorf("vanilla renderer: form %q has no tree", form.ID)
	}

	working := render.Form{ID: form.ID, Definition: form.Definition, Tree: form.Tree.Clone()}
	if len(options.Errors) > 0 {
		render.ApplyErrors(working, options.Errors)
	}
	render.AppendHidden(working.Tree, options.Hidden...)
	fragment := ui.HTML(working.Tree)
	if !options.Page {
		return []byte(fragment), nil
	}

	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	lang := options.Lang
	if lang == "" {
		lang = r.lang
	}
	result, err := r.templates.RenderTemplate(pageLayout(options.Theme), map[string]any{
		"page": map[string]any{
			"title": pageTitle(form, options),
			"lang":  lang,
		},
		"form":       fragment,
		"stylesheet": r.stylesheet,
		"theme":      themeContext(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageTitle(form render.Form, options render.RenderOptions) string {
	if title := strings.TrimSpace(options.Title); title != "" {
		return title
	}
	if form.Definition != nil {
		if label := strings.TrimSpace(form.Definition.LabelText()); label != "" {
			return label
		}
	}
	return form.ID
}

func pageLayout(cfg *theme.RendererConfig) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[PagePartial]); name != "" {
			return name
		}
	}
	return PageTemplate
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	vars := make(map[string]any, len(cfg.CSSVars))
	for key, value := range cfg.CSSVars {
		vars[key] = value
	}
	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"cssVars": vars,
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL(StylesheetAsset)
	}
	return ctx
}

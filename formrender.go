// Package formrender is the quick-start surface of the module: it turns a
// form definition into rendered output with the default pipeline.
package formrender

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	internalloader "github.com/goliatone/go-formrender/internal/loader"
	internalparser "github.com/goliatone/go-formrender/internal/openapi/parser"
	"github.com/goliatone/go-formrender/pkg/formdef"
	pkgopenapi "github.com/goliatone/go-formrender/pkg/openapi"
	"github.com/goliatone/go-formrender/pkg/orchestrator"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/renderers/vanilla"
)

const htmlRenderer = "vanilla"

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate renders the definition at src with the named renderer. An empty
// renderer name selects vanilla HTML. The returned Result is empty when the
// definition is malformed.
func Generate(ctx context.Context, src formdef.Source, rendererName string, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   src,
		Renderer: rendererName,
	})
}

// GenerateHTML loads the definition at src and renders it as an HTML form.
func GenerateHTML(ctx context.Context, src formdef.Source, options ...orchestrator.Option) ([]byte, error) {
	result, err := Generate(ctx, src, htmlRenderer, options...)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// GenerateHTMLFromDocument renders a pre-loaded document, bypassing the
// loader stage.
func GenerateHTMLFromDocument(ctx context.Context, doc formdef.Document, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Renderer: htmlRenderer,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// NewLoader constructs the default definition loader.
func NewLoader(options ...formdef.LoaderOption) formdef.Loader {
	return internalloader.New(formdef.NewLoaderOptions(options...))
}

// NewParser constructs the default OpenAPI operation parser.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalparser.New(pkgopenapi.NewParserOptions(options...))
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifests registers manifests with a local selector and uses
// them for theme resolution. The first manifest is the default theme.
func WithThemeManifests(defaultVariant string, manifests ...*theme.Manifest) (orchestrator.Option, error) {
	selector, err := orchestrator.NewManifestSelector("", manifests...)
	if err != nil {
		return nil, err
	}
	return func(o *orchestrator.Orchestrator) {
		orchestrator.WithThemeSelector(selector)(o)
		orchestrator.WithDefaultTheme("", defaultVariant)(o)
	}, nil
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so
// callers can extend them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet served alongside page output.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

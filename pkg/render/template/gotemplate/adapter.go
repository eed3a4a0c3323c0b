package gotemplate

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formrender/pkg/render/template"
)

// Option configures the underlying go-template engine.
type Option = gotemplatepkg.Option

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return gotemplatepkg.WithFS(files)
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return gotemplatepkg.WithBaseDir(strings.TrimSpace(dir))
}

// WithExtension overrides the extension appended to bare template names.
func WithExtension(ext string) Option {
	return gotemplatepkg.WithExtension(strings.TrimSpace(ext))
}

// Engine is a go-template engine carrying the filters the page layouts use
// (cssvars on top of go-template's trim and lowerfirst).
type Engine struct {
	*gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine from a base directory or an fs.FS.
func New(options ...Option) (*Engine, error) {
	options = append(options, gotemplatepkg.WithTemplateFunc(map[string]any{
		"cssvars": pongo2.FilterFunction(filterCSSVars),
	}))
	engine, err := gotemplatepkg.NewRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{Engine: engine}, nil
}

// filterCSSVars renders a map of custom properties as "--k: v;" pairs sorted
// by name.
func filterCSSVars(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	vars, ok := in.Interface().(map[string]any)
	if !ok || len(vars) == 0 {
		return pongo2.AsValue(""), nil
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(fmt.Sprint(vars[key]))
		b.WriteByte(';')
	}
	return pongo2.AsValue(b.String()), nil
}

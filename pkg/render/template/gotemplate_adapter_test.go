package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formrender/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("use-default-filters", map[string]any{
		"label": "  Name  ",
		"vars":  map[string]string{"--brand": "#123456", "--accent": "red"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<div style=\"--accent: red; --brand: #123456;\">Name</div>\n"
	if result != want {
		t.Fatalf("default filters mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderInlineContent(t *testing.T) {
	engine := newEngine(t)

	type payload struct {
		Title string `json:"title"`
	}
	result, err := engine.Render("<h1>{{ page.title }}</h1>", map[string]any{"page": payload{Title: "Contact"}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "<h1>Contact</h1>" {
		t.Fatalf("unexpected inline render: %q", result)
	}
}

func TestGoTemplateEngine_RequiresTemplates(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

// Package captcha turns the CAPTCHA placeholder left by the rendering engine
// into a working widget.
package captcha

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// ErrMissingSiteKey is returned when no site key can be resolved.
var ErrMissingSiteKey = errors.New("captcha: site key is required")

const pageContentMarker = "/jcr:content"

// Config is the provider configuration of a CAPTCHA field.
type Config struct {
	SiteKey string `json:"siteKey"`
	URI     string `json:"uri"`
	Version string `json:"version"`
}

// ConfigFor reads properties["fd:captcha"].config, falling back to the
// field's value, uri and version.
func ConfigFor(field *formdef.Field) Config {
	if field == nil {
		return Config{}
	}
	if props, ok := field.Property(formdef.PropertyCaptcha).(map[string]any); ok {
		if raw, ok := props["config"].(map[string]any); ok {
			return Config{
				SiteKey: formdef.FormatValue(raw["siteKey"]),
				URI:     formdef.FormatValue(raw["uri"]),
				Version: formdef.FormatValue(raw["version"]),
			}
		}
	}
	return Config{
		SiteKey: field.StringValue(),
		URI:     field.URI,
		Version: field.Version,
	}
}

// PageName returns the site page a field belongs to: the part of its
// fd:path before "/jcr:content", or "" when the path has none.
func PageName(field *formdef.Field) string {
	path := field.StringProperty(formdef.PropertyPath)
	idx := strings.LastIndex(path, pageContentMarker)
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// Captcha is an attached widget.
type Captcha interface {
	// Attach installs the widget into the finished form.
	Attach(form *ui.Node) error
	// Field returns the definition the widget was built for.
	Field() *formdef.Field
}

// Factory builds the widget for a form's CAPTCHA field.
type Factory func(cfg Config, field *formdef.Field, pageName string) (Captcha, error)

// New builds the widget for field with factory, ReCaptcha when nil.
func New(factory Factory, field *formdef.Field) (Captcha, error) {
	if field == nil {
		return nil, errors.New("captcha: field is required")
	}
	if factory == nil {
		factory = NewReCaptcha
	}
	c, err := factory(ConfigFor(field), field, PageName(field))
	if err != nil {
		return nil, fmt.Errorf("captcha: build %q: %w", field.ID, err)
	}
	return c, nil
}

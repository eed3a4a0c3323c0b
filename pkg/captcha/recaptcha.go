package captcha

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// DefaultScriptURI is the reCAPTCHA loader used when the config has no uri.
const DefaultScriptURI = "https://www.google.com/recaptcha/api.js"

// ReCaptcha renders Google reCAPTCHA. Version "v3" and "enterprise" load the
// invisible, score based script; anything else renders the v2 checkbox in
// place of the placeholder.
type ReCaptcha struct {
	config   Config
	field    *formdef.Field
	pageName string
}

// NewReCaptcha is the default Factory.
func NewReCaptcha(cfg Config, field *formdef.Field, pageName string) (Captcha, error) {
	if strings.TrimSpace(cfg.SiteKey) == "" {
		return nil, ErrMissingSiteKey
	}
	return &ReCaptcha{config: cfg, field: field, pageName: pageName}, nil
}

func (r *ReCaptcha) Field() *formdef.Field { return r.field }

// Invisible reports whether the score based variant is used.
func (r *ReCaptcha) Invisible() bool {
	switch strings.ToLower(r.config.Version) {
	case "v3", "enterprise":
		return true
	default:
		return false
	}
}

// ScriptURL returns the loader URL.
func (r *ReCaptcha) ScriptURL() (string, error) {
	raw := r.config.URI
	if raw == "" {
		raw = DefaultScriptURI
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("captcha: script uri: %w", err)
	}
	if r.Invisible() {
		q := u.Query()
		q.Set("render", r.config.SiteKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Attach appends the loader script to form, records the widget metadata on
// the form and fills the placeholder.
func (r *ReCaptcha) Attach(form *ui.Node) error {
	if form == nil {
		return fmt.Errorf("captcha: form is required")
	}
	src, err := r.ScriptURL()
	if err != nil {
		return err
	}

	form.SetData("captchaId", r.field.ID)
	form.SetData("captchaName", r.field.Name)
	form.SetData("captchaVersion", r.config.Version)
	if r.pageName != "" {
		form.SetData("captchaPage", r.pageName)
	}

	if placeholder := form.Query(".captcha-wrapper"); placeholder != nil {
		if r.Invisible() {
			placeholder.SetText("")
			placeholder.SetData("visible", "false")
			placeholder.SetData("sitekey", r.config.SiteKey)
		} else {
			placeholder.SetText("")
			placeholder.Append(ui.Element("div",
				ui.A("class", "g-recaptcha"),
				ui.A("id", r.field.ID),
				ui.A("data-sitekey", r.config.SiteKey),
			))
		}
	}

	form.Append(ui.Element("script",
		ui.A("src", src),
		ui.A("async", ""),
		ui.A("defer", ""),
	))
	return nil
}

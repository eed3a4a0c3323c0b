package render

import (
	"errors"
	"fmt"
)

// ErrDuplicateCaptcha is returned when a definition holds more than one
// CAPTCHA field.
var ErrDuplicateCaptcha = errors.New("render: form already has a captcha field")

// CaptchaError names the two conflicting CAPTCHA fields.
type CaptchaError struct {
	First  string
	Second string
}

func (e *CaptchaError) Error() string {
	return fmt.Sprintf("render: captcha %q conflicts with %q: %v", e.Second, e.First, ErrDuplicateCaptcha)
}

func (e *CaptchaError) Unwrap() error {
	return ErrDuplicateCaptcha
}

// EnrichError reports a failing enrichment hook. The render of the subtree
// stops at the first failure.
type EnrichError struct {
	FieldID   string
	Container bool
	Err       error
}

func (e *EnrichError) Error() string {
	kind := "field"
	if e.Container {
		kind = "container"
	}
	return fmt.Sprintf("render: enrich %s %q: %v", kind, e.FieldID, e.Err)
}

func (e *EnrichError) Unwrap() error {
	return e.Err
}

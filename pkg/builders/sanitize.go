package builders

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	richOnce   sync.Once
	richPolicy *bluemonday.Policy
)

// StripTags removes all markup from s and returns plain text suitable for an
// attribute such as title.
func StripTags(s string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeRichText keeps user-generated-content markup and drops scripts,
// handlers and unsafe URLs.
func SanitizeRichText(s string) string {
	richOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()
	})
	return richPolicy.Sanitize(s)
}

package tui

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat selects how the answers of a session are encoded.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatPrettyText     OutputFormat = "pretty"
)

// ParseOutputFormat resolves a format name as used in config files and
// flags. The empty name selects JSON.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(name))); format {
	case "":
		return OutputFormatJSON, nil
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, nil
	}
	return "", fmt.Errorf("tui: unknown output format %q", name)
}

// ContentType is the media type of encoded answers.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	}
	return "application/json"
}

func (f OutputFormat) encode(values map[string]any) ([]byte, error) {
	switch f {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	}
	return json.Marshal(values)
}

// Prefixes are prepended to the notices shown between prompts.
type Prefixes struct {
	Info  string
	Error string
}

// AnswerHook rewrites the collected answers before they are encoded.
type AnswerHook func(map[string]any) (map[string]any, error)

type Option func(*Renderer)

// WithPromptDriver replaces the survey driver. Nil keeps the default.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat picks the answer encoding. Empty keeps JSON.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

func WithAnswerHook(hook AnswerHook) Option {
	return func(r *Renderer) {
		r.hook = hook
	}
}

func WithPrefixes(prefixes Prefixes) Option {
	return func(r *Renderer) {
		r.prefixes = prefixes
	}
}

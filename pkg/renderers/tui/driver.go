package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message     string
	Default     string
	Help        string
	Placeholder string
	Validator   func(string) error
}

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int // used for multi-select; indices into Options
	Help         string
	PageSize     int
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver asks a single question at a time. The default implementation
// uses survey; tests script answers.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// surveyDriver prompts on the process terminal.
type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{out: os.Stdout}
}

// ask runs one survey prompt into a T after checking ctx.
func ask[T any](ctx context.Context, prompt survey.Prompt, validator func(string) error) (T, error) {
	var out T
	if err := ctx.Err(); err != nil {
		return out, err
	}
	var opts []survey.AskOpt
	if validator != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			text, _ := ans.(string)
			return validator(text)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return out, ErrAborted
		}
		return out, err
	}
	return out, nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	return ask[string](ctx, &survey.Input{Message: cfg.Message, Help: helpText(cfg), Default: cfg.Default}, cfg.Validator)
}

func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	// survey.Password has no default; an empty answer keeps cfg.Default.
	answer, err := ask[string](ctx, &survey.Password{Message: cfg.Message, Help: helpText(cfg)}, cfg.Validator)
	if err == nil && answer == "" {
		answer = cfg.Default
	}
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	return ask[bool](ctx, &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, nil)
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	choice, err := ask[string](ctx, prompt, nil)
	if err != nil {
		return 0, err
	}
	return indexOf(cfg.Options, choice), nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if len(cfg.Defaults) > 0 {
		prompt.Default = defaultsFromIndices(cfg.Options, cfg.Defaults)
	}
	choices, err := ask[[]string](ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	return indicesOf(cfg.Options, choices), nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return ask[string](ctx, &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, nil)
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// helpText falls back to the placeholder, which survey cannot show inline.
func helpText(cfg InputConfig) string {
	if cfg.Help != "" || cfg.Placeholder == "" {
		return cfg.Help
	}
	return "e.g. " + cfg.Placeholder
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func defaultsFromIndices(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

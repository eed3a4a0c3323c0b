package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/builders"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every visible, enabled field of a rendered form and serializes the answers.
// Defaults come from the rendered controls, so values prefilled by the rules
// engine are offered as the initial answers.
type Renderer struct {
	driver   PromptDriver
	format   OutputFormat
	hook     AnswerHook
	prefixes Prefixes
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver: newSurveyDriver(),
		format: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.format.ContentType()
}

type session struct {
	form   render.Form
	state  *State
	errors map[string][]string
}

// Render walks the form definition in render order and prompts for each
// field. Server-side errors passed in options are printed before the prompt
// of the field they belong to.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form.Definition == nil {
		return nil, fmt.Errorf("tui: form %q has no definition", form.ID)
	}

	mapping := render.MapErrorPayload(form.Definition, opts.Errors)
	s := &session{form: form, state: NewState(nil, mapping.Fields), errors: mapping.Fields}
	for _, message := range mapping.Form {
		_ = r.fail(ctx, message)
	}

	if err := r.promptChildren(ctx, s, form.Definition, ""); err != nil {
		return nil, err
	}
	for _, hidden := range opts.Hidden {
		if hidden.Name != "" {
			_ = s.state.SetValue(hidden.Name, hidden.Value)
		}
	}

	values := s.state.Values()
	if r.hook != nil {
		var err error
		values, err = r.hook(values)
		if err != nil {
			return nil, fmt.Errorf("tui: answer hook: %w", err)
		}
	}
	return r.format.encode(values)
}

func (r *Renderer) promptChildren(ctx context.Context, s *session, parent *formdef.Field, prefix string) error {
	children := parent.OrderedChildren()
	children = append(children, parent.List...)
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if child == nil || !r.interactive(s, child) {
			continue
		}
		path := joinPath(prefix, child.Name)
		if err := r.promptField(ctx, s, child, path); err != nil {
			return err
		}
	}
	return nil
}

// interactive reports whether field takes an answer: buttons, static content
// and CAPTCHA are skipped, as are fields the rendered tree hides or disables.
func (r *Renderer) interactive(s *session, field *formdef.Field) bool {
	switch field.RenderType() {
	case formdef.FieldTypeButton, formdef.FieldTypePlainText, formdef.FieldTypeHeading,
		formdef.FieldTypeImage, formdef.FieldTypeCaptcha:
		return false
	}
	if field.Hidden() || field.Disabled() || field.ReadOnly {
		return false
	}
	if field.IsPanel() {
		return true
	}
	if field.Name == "" {
		return false
	}
	if wrapper := s.form.Wrapper(field.ID); wrapper != nil && wrapper.AttrValue("data-visible") == "false" {
		return false
	}
	if control := s.form.Control(field.ID); control != nil && control.HasAttr("disabled") {
		return false
	}
	return true
}

func (r *Renderer) promptField(ctx context.Context, s *session, field *formdef.Field, path string) error {
	for _, message := range s.errors[field.ID] {
		_ = r.fail(ctx, message)
	}
	switch field.RenderType() {
	case formdef.FieldTypePanel:
		if field.Repeatable {
			return r.promptRepeatable(ctx, s, field, path)
		}
		return r.promptChildren(ctx, s, field, path)
	case formdef.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, s, field, path)
	case formdef.FieldTypeCheckboxGroup:
		return r.promptMulti(ctx, s, field, path)
	case formdef.FieldTypeDropDown, formdef.FieldTypeRadioGroup:
		if field.Type == "string[]" || field.Type == "number[]" {
			return r.promptMulti(ctx, s, field, path)
		}
		return r.promptSelect(ctx, s, field, path)
	case "number":
		return r.promptNumber(ctx, s, field, path)
	default:
		return r.promptString(ctx, s, field, path)
	}
}

func (r *Renderer) promptString(ctx context.Context, s *session, field *formdef.Field, path string) error {
	rules := collectValidationRules(field)
	cfg := InputConfig{
		Message:     displayLabel(field),
		Default:     r.currentValue(s, field),
		Help:        field.Description,
		Placeholder: field.Placeholder,
		Validator:   rules.validateString,
	}

	var (
		response string
		err      error
	)
	switch field.RenderType() {
	case "password":
		response, err = r.driver.Password(ctx, cfg)
	case formdef.FieldTypeMultiline:
		response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
		if err == nil {
			if verr := rules.validateString(response); verr != nil {
				_ = r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, verr))
				return r.promptString(ctx, s, field, path)
			}
		}
	default:
		response, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(response) == "" && !rules.required {
		return nil
	}
	return s.state.SetValue(path, response)
}

func (r *Renderer) promptNumber(ctx context.Context, s *session, field *formdef.Field, path string) error {
	rules := collectValidationRules(field)
	integer := isInteger(field.Step)
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: r.currentValue(s, field),
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if rules.required {
				_ = r.info(ctx, fmt.Sprintf("Invalid %s: required", path))
				continue
			}
			return nil
		}

		var parsed any
		if integer {
			i, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				_ = r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
				continue
			}
			parsed = i
		} else {
			f, err := strconv.ParseFloat(input, 64)
			if err != nil {
				_ = r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
				continue
			}
			parsed = f
		}
		if err := rules.validateNumber(parsed); err != nil {
			_ = r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
			continue
		}
		return s.state.SetValue(path, parsed)
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, s *session, field *formdef.Field, path string) error {
	checked := false
	if control := s.form.Control(field.ID); control != nil {
		checked = control.HasAttr("checked")
	}
	for {
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: displayLabel(field),
			Default: checked,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		if !answer {
			if field.Required {
				_ = r.info(ctx, fmt.Sprintf("Invalid %s: required", path))
				continue
			}
			return nil
		}
		value := any(true)
		if len(field.Enum) > 0 {
			value = field.Enum[0]
		}
		return s.state.SetValue(path, value)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, s *session, field *formdef.Field, path string) error {
	values, labels := options(field)
	if len(values) == 0 {
		return nil
	}
	current := r.currentValue(s, field)
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      labels,
			DefaultIndex: indexOf(values, current),
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			_ = r.info(ctx, fmt.Sprintf("Invalid %s selection", path))
			continue
		}
		return s.state.SetValue(path, values[idx])
	}
}

func (r *Renderer) promptMulti(ctx context.Context, s *session, field *formdef.Field, path string) error {
	values, labels := options(field)
	if len(values) == 0 {
		return nil
	}
	rules := collectValidationRules(field)
	defaults := indicesOf(values, r.checkedValues(s, field))
	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  labels,
			Defaults: defaults,
			Help:     field.Description,
		})
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(values) {
				selected = append(selected, values[idx])
			}
		}
		if err := rules.validateArray(selected); err != nil {
			_ = r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
			continue
		}
		return s.state.SetValue(path, selected)
	}
}

// promptRepeatable collects panel instances under path.0, path.1, ... until
// the user stops or maxItems is reached; minItems instances are mandatory.
func (r *Renderer) promptRepeatable(ctx context.Context, s *session, field *formdef.Field, path string) error {
	minItems := intValue(field.MinItems, 0)
	maxItems := intValue(field.MaxItems, -1)
	label := displayLabel(field)

	for idx := 0; maxItems < 0 || idx < maxItems; idx++ {
		if idx >= minItems {
			more, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Add %s entry #%d?", label, idx+1),
				Default: false,
			})
			if err != nil {
				return err
			}
			if !more {
				break
			}
		}
		if err := r.promptChildren(ctx, s, field, path+"."+strconv.Itoa(idx)); err != nil {
			return err
		}
	}
	return nil
}

// currentValue reads the value the rendered control currently carries.
func (r *Renderer) currentValue(s *session, field *formdef.Field) string {
	control := s.form.Control(field.ID)
	if control == nil {
		return field.StringValue()
	}
	switch control.Tag {
	case "textarea":
		return control.TextContent()
	case "select":
		if option := control.Query("option[selected]"); option != nil {
			return option.AttrValue("value")
		}
		return ""
	}
	if wrapper := s.form.Wrapper(field.ID); wrapper != nil {
		if checked := wrapper.Query("input[checked]"); checked != nil {
			return checked.AttrValue("value")
		}
	}
	return control.AttrValue("value")
}

func (r *Renderer) checkedValues(s *session, field *formdef.Field) []string {
	var out []string
	wrapper := s.form.Wrapper(field.ID)
	if wrapper == nil {
		return out
	}
	for _, input := range wrapper.QueryAll("input[checked], option[selected]") {
		out = append(out, input.AttrValue("value"))
	}
	return out
}

func (r *Renderer) info(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.prefixes.Info+message)
}

func (r *Renderer) fail(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.prefixes.Error+message)
}

func displayLabel(field *formdef.Field) string {
	if label := field.LabelText(); label != "" {
		return builders.StripTags(label)
	}
	return field.Name
}

// options returns the enum values and their captions.
func options(field *formdef.Field) ([]string, []string) {
	values := make([]string, 0, len(field.Enum))
	labels := make([]string, 0, len(field.Enum))
	for i, value := range field.Enum {
		v := formdef.FormatValue(value)
		label := v
		if i < len(field.EnumNames) {
			if name := formdef.FormatValue(field.EnumNames[i]); name != "" {
				label = name
			}
		}
		values = append(values, v)
		labels = append(labels, label)
	}
	return values, labels
}

func joinPath(prefix, name string) string {
	switch {
	case name == "":
		return prefix
	case prefix == "":
		return name
	default:
		return prefix + "." + name
	}
}

type validationRules struct {
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

func collectValidationRules(field *formdef.Field) validationRules {
	rules := validationRules{required: field.Required}
	if v, ok := floatValue(field.Minimum); ok {
		rules.min = &v
	}
	if v, ok := floatValue(field.Maximum); ok {
		rules.max = &v
	}
	minLen, maxLen := field.MinLength, field.MaxLength
	if field.RenderType() == formdef.FieldTypeCheckboxGroup {
		minLen, maxLen = field.MinItems, field.MaxItems
	}
	if v := intValue(minLen, -1); v >= 0 {
		rules.minLen = &v
	}
	if v := intValue(maxLen, -1); v >= 0 {
		rules.maxLen = &v
	}
	if field.Pattern != "" {
		if re, err := regexp.Compile("^(?:" + field.Pattern + ")$"); err == nil {
			rules.pattern = re
		}
	}
	return rules
}

func (r validationRules) validateString(value string) error {
	if strings.TrimSpace(value) == "" {
		if r.required {
			return errors.New("required")
		}
		return nil
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	return nil
}

func (r validationRules) validateNumber(value any) error {
	var v float64
	switch n := value.(type) {
	case int64:
		v = float64(n)
	case float64:
		v = n
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
	if r.min != nil && v < *r.min {
		return fmt.Errorf("min %v", *r.min)
	}
	if r.max != nil && v > *r.max {
		return fmt.Errorf("max %v", *r.max)
	}
	return nil
}

func (r validationRules) validateArray(value []any) error {
	if r.required && len(value) == 0 {
		return errors.New("required")
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("select at least %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("select at most %d", *r.maxLen)
	}
	return nil
}

func floatValue(raw any) (float64, bool) {
	text := formdef.FormatValue(raw)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	return v, err == nil
}

func intValue(raw any, fallback int) int {
	v, ok := floatValue(raw)
	if !ok {
		return fallback
	}
	return int(v)
}

func isInteger(step any) bool {
	v, ok := floatValue(step)
	return ok && v == float64(int64(v))
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for idx, val := range v {
			if nested, ok := val.(map[string]any); ok {
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), nested, out)
				continue
			}
			out.Add(prefix, formdef.FormatValue(val))
		}
	default:
		out.Set(prefix, formdef.FormatValue(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, formdef.FormatValue(v))
		}
	}
}

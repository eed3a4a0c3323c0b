package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Transformer mutates the canonical definition after decoding and before
// validation and rendering. Implementations can relabel fields, inject
// properties or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, def *formdef.Field) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *formdef.Field) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *formdef.Field) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// Transformers runs each transformer in order, stopping at the first error.
type Transformers []Transformer

func (t Transformers) Transform(ctx context.Context, def *formdef.Field) error {
	for _, transformer := range t {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are addressed by a dot separated path of names (or ids):
//
//	{
//	  "form": {"action": "/submit", "properties": {"fd:path": "/content/forms/contact"}},
//	  "fields": {
//	    "contact.email": {"label": "Work email", "required": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Form   jsonFormPatch             `json:"form"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFormPatch struct {
	Action               string         `json:"action"`
	RedirectURL          string         `json:"redirectUrl"`
	ThankYouMsg          string         `json:"thankYouMsg"`
	AppliedCSSClassNames string         `json:"appliedCssClassNames"`
	Properties           map[string]any `json:"properties"`
}

type jsonFieldPatch struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Placeholder string            `json:"placeholder"`
	Tooltip     string            `json:"tooltip"`
	Rename      string            `json:"rename"`
	Required    *bool             `json:"required"`
	Visible     *bool             `json:"visible"`
	Enabled     *bool             `json:"enabled"`
	Value       any               `json:"value"`
	Properties  map[string]any    `json:"properties"`
	Rules       map[string]string `json:"rules"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied definition.
func (t *JSONPresetTransformer) Transform(ctx context.Context, def *formdef.Field) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	applyFormPatch(def, t.document.Form)
	for path, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findFieldByPath(def, path)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", path)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFormPatch(def *formdef.Field, patch jsonFormPatch) {
	if patch.Action != "" {
		def.Action = patch.Action
	}
	if patch.RedirectURL != "" {
		def.RedirectURL = patch.RedirectURL
	}
	if patch.ThankYouMsg != "" {
		def.ThankYouMsg = patch.ThankYouMsg
	}
	if patch.AppliedCSSClassNames != "" {
		def.AppliedCSSClassNames = patch.AppliedCSSClassNames
	}
	def.Properties = mergeAnyMap(def.Properties, patch.Properties)
}

func applyFieldPatch(field *formdef.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		if field.Label == nil {
			field.Label = &formdef.Label{}
		}
		field.Label.Value = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Tooltip != "" {
		field.Tooltip = patch.Tooltip
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Visible != nil {
		visible := *patch.Visible
		field.Visible = &visible
	}
	if patch.Enabled != nil {
		enabled := *patch.Enabled
		field.Enabled = &enabled
	}
	if patch.Value != nil {
		field.Value = patch.Value
	}
	field.Properties = mergeAnyMap(field.Properties, patch.Properties)
	if len(patch.Rules) > 0 {
		if field.Rules == nil {
			field.Rules = make(map[string]string, len(patch.Rules))
		}
		for key, value := range patch.Rules {
			field.Rules[key] = value
		}
	}
	if name := strings.TrimSpace(patch.Rename); name != "" {
		field.Name = name
	}
}

func findFieldByPath(root *formdef.Field, path string) *formdef.Field {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	current := root
	for _, segment := range strings.Split(path, ".") {
		current = childNamed(current, segment)
		if current == nil {
			return nil
		}
	}
	return current
}

func childNamed(parent *formdef.Field, segment string) *formdef.Field {
	children := parent.OrderedChildren()
	if len(children) == 0 {
		children = parent.List
	}
	for _, child := range children {
		if child != nil && child.Name == segment {
			return child
		}
	}
	for _, child := range children {
		if child != nil && child.ID == segment {
			return child
		}
	}
	return nil
}

func mergeAnyMap(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

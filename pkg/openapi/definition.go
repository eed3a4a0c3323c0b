package openapi

import (
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// ExtensionNamespace holds per-schema form hints:
//
//	x-formrender:
//	  fieldType: multiline-input
//	  label: Biography
//	  placeholder: Tell us about yourself
//	  order: 2
//	  rules: {visible: "newsletter"}
//	  properties: {variant: cards}
//
// On an object schema, `order` may instead list property names.
const ExtensionNamespace = "x-formrender"

const multilineThreshold = 200

type definitionConfig struct {
	submitLabel string
	submit      bool
}

// DefinitionOption configures Definition.
type DefinitionOption func(*definitionConfig)

// WithSubmitLabel sets the caption of the trailing submit button.
func WithSubmitLabel(label string) DefinitionOption {
	return func(cfg *definitionConfig) {
		if strings.TrimSpace(label) != "" {
			cfg.submitLabel = label
		}
	}
}

// WithoutSubmit omits the trailing submit button.
func WithoutSubmit() DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.submit = false
	}
}

// Definition converts op into an alternate-shape form definition: one item
// per request body property, objects as panels, arrays of objects as
// repeatable panels, followed by a submit button.
func Definition(op Operation, opts ...DefinitionOption) map[string]any {
	cfg := definitionConfig{submitLabel: "Submit", submit: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	form := map[string]any{
		"id":        op.ID,
		"fieldType": formdef.FieldTypeForm,
		"action":    op.Path,
		"properties": map[string]any{
			"method":      op.Method,
			"operationId": op.ID,
		},
	}
	if title := firstNonEmpty(op.Summary, op.Description); title != "" {
		form["label"] = map[string]any{"value": title}
	}

	items := objectItems(op.RequestBody, "")
	if cfg.submit {
		items = append(items, map[string]any{
			"id":         "submit",
			"name":       "submit",
			"fieldType":  formdef.FieldTypeButton,
			"buttonType": "submit",
			"label":      map[string]any{"value": cfg.submitLabel},
		})
	}
	form["items"] = items
	return form
}

func objectItems(schema Schema, prefix string) []any {
	names := propertyOrder(schema)
	items := make([]any, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		item := fieldFor(name, prop, prefix, schema.IsRequired(name))
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

func fieldFor(name string, schema Schema, prefix string, required bool) map[string]any {
	hints := extension(schema)
	if formdef.Truthy(hints["hidden"]) {
		return nil
	}
	id := name
	if prefix != "" {
		id = prefix + "-" + name
	}
	item := map[string]any{
		"id":    id,
		"name":  name,
		"label": map[string]any{"value": firstNonEmpty(str(hints["label"]), schema.Title, humanize(name))},
	}
	if schema.Description != "" {
		item["description"] = schema.Description
	}
	if required {
		item["required"] = true
	}
	if schema.ReadOnly {
		item["readOnly"] = true
	}
	if schema.Default != nil {
		item["default"] = schema.Default
	}
	if placeholder := str(hints["placeholder"]); placeholder != "" {
		item["placeholder"] = placeholder
	}
	if rules, ok := hints["rules"].(map[string]any); ok {
		item["rules"] = rules
	}
	if props, ok := hints["properties"].(map[string]any); ok {
		item["properties"] = props
	}

	switch {
	case schema.Type == "object" || len(schema.Properties) > 0:
		item["fieldType"] = formdef.FieldTypePanel
		item["items"] = objectItems(schema, id)
	case schema.Type == "array" && schema.Items != nil && (schema.Items.Type == "object" || len(schema.Items.Properties) > 0):
		item["fieldType"] = formdef.FieldTypePanel
		item["repeatable"] = true
		setInt(item, "minItems", schema.MinItems)
		setInt(item, "maxItems", schema.MaxItems)
		item["items"] = objectItems(*schema.Items, id)
	case schema.Type == "array" && schema.Items != nil && len(schema.Items.Enum) > 0:
		item["fieldType"] = formdef.FieldTypeCheckboxGroup
		item["enum"] = schema.Items.Enum
		item["type"] = "string[]"
	case schema.Type == "array" && schema.Items != nil && schema.Items.Format == "binary":
		item["fieldType"] = "file-input"
		item["type"] = "file[]"
	case len(schema.Enum) > 0:
		item["fieldType"] = formdef.FieldTypeDropDown
		item["enum"] = schema.Enum
	case schema.Type == "boolean":
		item["fieldType"] = formdef.FieldTypeCheckbox
		item["enum"] = []any{"true"}
		item["type"] = "boolean"
	case schema.Type == "integer" || schema.Type == "number":
		item["fieldType"] = "number-input"
		item["type"] = "number"
		setFloat(item, "minimum", schema.Minimum)
		setFloat(item, "maximum", schema.Maximum)
		if schema.Type == "integer" {
			item["step"] = 1
		}
	default:
		item["fieldType"] = stringFieldType(schema)
		item["type"] = "string"
		if schema.Format == "binary" {
			item["type"] = "file"
		}
		setInt(item, "minLength", schema.MinLength)
		setInt(item, "maxLength", schema.MaxLength)
		if schema.Pattern != "" {
			item["pattern"] = schema.Pattern
		}
	}
	if fieldType := str(hints["fieldType"]); fieldType != "" {
		item["fieldType"] = fieldType
	}
	return item
}

func stringFieldType(schema Schema) string {
	switch schema.Format {
	case "email":
		return "email-input"
	case "date":
		return "date-input"
	case "date-time":
		return "datetime-local-input"
	case "time":
		return "time-input"
	case "uri", "url":
		return "url-input"
	case "password":
		return "password-input"
	case "binary":
		return "file-input"
	}
	if schema.MaxLength != nil && *schema.MaxLength > multilineThreshold {
		return formdef.FieldTypeMultiline + "-input"
	}
	return "text-input"
}

// propertyOrder lists an object's properties: an `order` name list on the
// object first, then by per-property numeric `order`, then by name.
func propertyOrder(schema Schema) []string {
	var names []string
	seen := make(map[string]struct{}, len(schema.Properties))
	if listed, ok := extension(schema)["order"].([]any); ok {
		for _, raw := range listed {
			name := str(raw)
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	var rest []string
	for name := range schema.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		oi, iok := orderOf(schema.Properties[rest[i]])
		oj, jok := orderOf(schema.Properties[rest[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return rest[i] < rest[j]
		}
	})
	return append(names, rest...)
}

func orderOf(schema Schema) (float64, bool) {
	switch v := extension(schema)["order"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func extension(schema Schema) map[string]any {
	hints, _ := schema.Extensions[ExtensionNamespace].(map[string]any)
	return hints
}

// humanize turns "firstName" or "first_name" into "First Name".
func humanize(name string) string {
	var b strings.Builder
	prev := rune(0)
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
			prev = ' '
			continue
		case i == 0 || prev == ' ':
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func str(value any) string {
	if value == nil {
		return ""
	}
	return formdef.FormatValue(value)
}

func setInt(item map[string]any, key string, value *int) {
	if value != nil {
		item[key] = *value
	}
}

func setFloat(item map[string]any, key string, value *float64) {
	if value != nil {
		item[key] = *value
	}
}

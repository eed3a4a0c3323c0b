// Package sheet converts document-based (spreadsheet) form definitions into
// the alternate `items` shape understood by the normalizer.
//
// A sheet definition is a `:type: sheet` object whose `data` array holds one
// row per field:
//
//	{":type": "sheet", "data": [
//	  {"Name": "email", "Type": "email", "Label": "Email", "Mandatory": "x"},
//	  {"Name": "address", "Type": "fieldset", "Label": "Address"},
//	  {"Name": "city", "Type": "text", "Fieldset": "address"}
//	]}
//
// Column names are matched case-insensitively.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// ErrNotSheet is returned for definitions that are not document based.
var ErrNotSheet = errors.New("sheet: definition is not document based")

// Column names read from each row.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnType        = "type"
	ColumnLabel       = "label"
	ColumnPlaceholder = "placeholder"
	ColumnValue       = "value"
	ColumnOptions     = "options"
	ColumnMandatory   = "mandatory"
	ColumnMin         = "min"
	ColumnMax         = "max"
	ColumnFieldset    = "fieldset"
	ColumnRepeatable  = "repeatable"
	ColumnDescription = "description"
	ColumnReadOnly    = "readonly"
	ColumnVisible     = "visible"
	ColumnStyle       = "style"
)

var defaultTypes = map[string]string{
	"text":           "text-input",
	"email":          "email-input",
	"number":         "number-input",
	"date":           "date-input",
	"telephone":      "telephone-input",
	"tel":            "telephone-input",
	"file":           "file-input",
	"textarea":       formdef.FieldTypeMultiline + "-input",
	"select":         formdef.FieldTypeDropDown,
	"checkbox":       formdef.FieldTypeCheckbox,
	"radio":          formdef.FieldTypeRadio,
	"radio-group":    formdef.FieldTypeRadioGroup,
	"checkbox-group": formdef.FieldTypeCheckboxGroup,
	"fieldset":       formdef.FieldTypePanel,
	"plaintext":      formdef.FieldTypePlainText,
	"heading":        formdef.FieldTypeHeading,
	"image":          formdef.FieldTypeImage,
	"submit":         formdef.FieldTypeButton,
	"reset":          formdef.FieldTypeButton,
	"button":         formdef.FieldTypeButton,
	"captcha":        formdef.FieldTypeCaptcha,
}

// Option configures a Converter.
type Option func(*Converter)

// WithType maps a sheet Type column value to a field type.
func WithType(sheetType, fieldType string) Option {
	return func(c *Converter) {
		sheetType = strings.ToLower(strings.TrimSpace(sheetType))
		if sheetType != "" && fieldType != "" {
			c.types[sheetType] = fieldType
		}
	}
}

// Converter turns sheet rows into alternate-shape items.
type Converter struct {
	types map[string]string
}

// New returns a Converter with the built-in type table.
func New(opts ...Option) *Converter {
	c := &Converter{types: make(map[string]string, len(defaultTypes))}
	for k, v := range defaultTypes {
		c.types[k] = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Convert returns an alternate-shape form for a document-based definition.
// Rows naming a Fieldset are nested into that panel, which is created at
// its own row or at the first row referencing it.
func (c *Converter) Convert(def map[string]any) (map[string]any, error) {
	if !formdef.IsDocumentBased(def) {
		return nil, ErrNotSheet
	}
	rows, ok := def["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("sheet: data is %T, want an array", def["data"])
	}

	form := map[string]any{
		"id":        stringOr(def["id"], "form"),
		"fieldType": formdef.FieldTypeForm,
	}
	for _, key := range []string{"action", "redirectUrl", "thankYouMsg", "properties"} {
		if v, ok := def[key]; ok {
			form[key] = v
		}
	}

	var top []any
	panels := make(map[string]map[string]any)
	for i, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("sheet: row %d is %T, want an object", i, raw)
		}
		cells := normaliseRow(row)
		item := c.field(cells, i)
		if item == nil {
			continue
		}

		if item["fieldType"] == formdef.FieldTypePanel {
			name := formdef.FormatValue(item["name"])
			if existing, ok := panels[name]; ok {
				for k, v := range item {
					if k != "items" {
						existing[k] = v
					}
				}
				continue
			}
			panels[name] = item
		}

		parentName := cells[ColumnFieldset]
		if parentName == "" {
			top = append(top, item)
			continue
		}
		parent, ok := panels[parentName]
		if !ok {
			parent = map[string]any{
				"id":        parentName,
				"name":      parentName,
				"fieldType": formdef.FieldTypePanel,
				"items":     []any{},
			}
			panels[parentName] = parent
			top = append(top, parent)
		}
		parent["items"] = append(parent["items"].([]any), item)
	}
	form["items"] = top
	return form, nil
}

// Convert converts def with the default Converter.
func Convert(def map[string]any) (map[string]any, error) {
	return New().Convert(def)
}

func (c *Converter) field(cells map[string]string, index int) map[string]any {
	name := cells[ColumnName]
	sheetType := strings.ToLower(cells[ColumnType])
	if name == "" && sheetType == "" {
		return nil
	}
	if name == "" {
		name = sheetType + "-" + strconv.Itoa(index)
	}
	fieldType, ok := c.types[sheetType]
	if !ok {
		fieldType = defaultTypes["text"]
		if sheetType != "" {
			fieldType = sheetType + "-input"
		}
	}

	item := map[string]any{
		"id":        stringOr(cells[ColumnID], name),
		"name":      name,
		"fieldType": fieldType,
	}
	if label := cells[ColumnLabel]; label != "" {
		item["label"] = map[string]any{"value": label}
	}
	setString(item, "placeholder", cells[ColumnPlaceholder])
	setString(item, "description", cells[ColumnDescription])
	setString(item, "appliedCssClassNames", cells[ColumnStyle])
	if truthy(cells[ColumnMandatory]) {
		item["required"] = true
	}
	if truthy(cells[ColumnReadOnly]) {
		item["readOnly"] = true
	}
	if v := strings.ToLower(cells[ColumnVisible]); v == "false" || v == "no" {
		item["visible"] = false
	}

	value := cells[ColumnValue]
	options := splitOptions(cells[ColumnOptions])
	switch fieldType {
	case formdef.FieldTypeButton:
		buttonType := "button"
		if sheetType == "submit" || sheetType == "reset" {
			buttonType = sheetType
		}
		item["buttonType"] = buttonType
		if _, ok := item["label"]; !ok && value != "" {
			item["label"] = map[string]any{"value": value}
		}
	case formdef.FieldTypePlainText, formdef.FieldTypeHeading:
		if value == "" {
			value = cells[ColumnLabel]
			delete(item, "label")
		}
		setString(item, "value", value)
	case formdef.FieldTypeCheckbox, formdef.FieldTypeRadio:
		if len(options) > 0 {
			item["fieldType"] = fieldType + "-group"
			item["enum"] = options
			setString(item, "value", value)
			break
		}
		if value == "" {
			value = "on"
		}
		item["enum"] = []any{value}
	case formdef.FieldTypePanel:
		item["items"] = []any{}
		if truthy(cells[ColumnRepeatable]) {
			item["repeatable"] = true
			setNumber(item, "minItems", cells[ColumnMin])
			setNumber(item, "maxItems", cells[ColumnMax])
		}
	default:
		setString(item, "value", value)
		if len(options) > 0 {
			item["enum"] = options
		}
		switch fieldType {
		case defaultTypes["number"], defaultTypes["date"]:
			setNumberOrString(item, "minimum", cells[ColumnMin])
			setNumberOrString(item, "maximum", cells[ColumnMax])
		case defaultTypes["file"]:
			setNumber(item, "maxFileSize", cells[ColumnMax])
		default:
			setNumber(item, "minLength", cells[ColumnMin])
			setNumber(item, "maxLength", cells[ColumnMax])
		}
	}
	return item
}

func normaliseRow(row map[string]any) map[string]string {
	cells := make(map[string]string, len(row))
	for key, value := range row {
		cells[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(formdef.FormatValue(value))
	}
	return cells
}

func splitOptions(raw string) []any {
	if raw == "" {
		return nil
	}
	var out []any
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "x", "true", "yes", "1", "y":
		return true
	}
	return false
}

func stringOr(value any, fallback string) string {
	if s := strings.TrimSpace(formdef.FormatValue(value)); s != "" {
		return s
	}
	return fallback
}

func setString(item map[string]any, key, value string) {
	if value != "" {
		item[key] = value
	}
}

func setNumber(item map[string]any, key, raw string) {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		item[key] = n
	}
}

func setNumberOrString(item map[string]any, key, raw string) {
	if raw == "" {
		return
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		item[key] = n
		return
	}
	item[key] = raw
}

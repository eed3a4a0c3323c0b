package decorate

import (
	"strconv"

	"github.com/goliatone/go-formrender/pkg/builders"
	"github.com/goliatone/go-formrender/pkg/display"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// EmailPattern is applied to email controls lacking a stricter pattern.
const EmailPattern = `([A-Za-z0-9][._]?)+[A-Za-z0-9]@[A-Za-z0-9]+(\.?[A-Za-z0-9]){2}\.([A-Za-z0-9]{2,4})?`

// ControlSelector locates the bindable control inside a field node.
const ControlSelector = "input,textarea,select"

var displayTypes = map[string]struct{}{
	"number": {}, "date": {}, "text": {}, "email": {},
}

// SkipsInputAttributes reports field types without a single bindable
// control.
func SkipsInputAttributes(field *formdef.Field) bool {
	switch field.FieldType {
	case formdef.FieldTypeRadioGroup, formdef.FieldTypeCheckboxGroup, formdef.FieldTypeCaptcha:
		return true
	}
	return false
}

// InputAttributes binds identity, flags, value and constraints onto the
// field's first control and constraint metadata onto the wrapper.
func InputAttributes(field *formdef.Field, node *ui.Node) {
	if SkipsInputAttributes(field) {
		return
	}
	control := node.Query(ControlSelector)
	if control == nil {
		return
	}

	control.SetAttr("id", field.ID)
	control.SetAttr("name", field.Name)
	if field.Tooltip != "" {
		control.SetAttr("title", builders.StripTags(field.Tooltip))
	}
	control.SetFlag("readonly", field.ReadOnly)
	autocomplete := field.AutoComplete
	if autocomplete == "" {
		autocomplete = "off"
	}
	control.SetAttr("autocomplete", autocomplete)
	control.SetFlag("disabled", field.Disabled() ||
		(field.FieldType == formdef.FieldTypeDropDown && field.ReadOnly))

	bindValue(field, control)

	if field.Required {
		control.SetAttr("required", "required")
	}
	if field.Description != "" {
		control.SetAttr("aria-describedby", field.ID+"-description")
	}
	if formdef.Truthy(field.MinItems) {
		control.SetData("minItems", formdef.FormatValue(field.MinItems))
	}
	if formdef.Truthy(field.MaxItems) {
		control.SetData("maxItems", formdef.FormatValue(field.MaxItems))
	}
	if formdef.Truthy(field.MaxFileSize) {
		control.SetData("maxFileSize", formdef.FormatValue(field.MaxFileSize))
	}
	if control.Tag == "input" && control.AttrValue("type") == "email" {
		control.SetAttr("pattern", EmailPattern)
	}
	builders.SetConstraintMessages(node, field.ConstraintMessages)
	node.SetData("required", strconv.FormatBool(field.Required))
}

func bindValue(field *formdef.Field, control *ui.Node) {
	renderType := field.RenderType()
	if _, ok := displayTypes[renderType]; ok && (field.DisplayFormat != "" || field.DisplayValueExpression != "") {
		display.Attach(control, renderType, field.StringValue(), formdef.FormatValue(field.DisplayValue))
		return
	}

	inputType := control.AttrValue("type")
	switch {
	case control.Tag == "input" && inputType == "file":
		control.SetFlag("multiple", field.Type == "file[]")
	case control.Tag == "input" && (inputType == "radio" || inputType == "checkbox"):
		value := "on"
		if len(field.Enum) > 0 {
			value = formdef.FormatValue(field.Enum[0])
		}
		control.SetAttr("value", value)
		control.SetFlag("checked", field.StringValue() == value)
	case control.Tag == "textarea":
		text := field.StringValue()
		if text == "" && field.Default != nil {
			text = formdef.FormatValue(field.Default)
		}
		control.SetText(text)
	case control.Tag == "select":
	default:
		value := field.StringValue()
		if value == "" && field.Default != nil {
			value = formdef.FormatValue(field.Default)
		}
		control.SetAttr("value", value)
	}
}

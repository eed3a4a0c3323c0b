package builders

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

var inputTypes = map[string]struct{}{
	"text": {}, "email": {}, "number": {}, "date": {}, "password": {}, "tel": {},
	"file": {}, "range": {}, "checkbox": {}, "radio": {}, "url": {}, "search": {},
	"color": {}, "time": {}, "datetime-local": {}, "month": {}, "week": {}, "hidden": {},
}

// InputType maps a render type to an <input> type. Unknown types become
// "text", matching how browsers treat them.
func InputType(renderType string) string {
	if _, ok := inputTypes[renderType]; ok {
		return renderType
	}
	return "text"
}

// Control builds a bare <input> for the field's render type.
func Control(field *formdef.Field) *ui.Node {
	input := ui.Element("input", ui.A("type", InputType(field.RenderType())))
	SetPlaceholder(input, field)
	SetConstraints(input, field)
	return input
}

// Input is the fallback builder: a wrapper around a generic <input>.
func Input(field *formdef.Field) *ui.Node {
	return Wrapper(field).Append(Control(field))
}

// TextArea builds a wrapped <textarea>.
func TextArea(field *formdef.Field) *ui.Node {
	area := ui.Element("textarea")
	SetPlaceholder(area, field)
	return Wrapper(field).Append(area)
}

// Select builds a wrapped <select> populated from the field's enum.
func Select(field *formdef.Field) *ui.Node {
	sel := ui.Element("select")
	addOption := func(label, value string) *ui.Node {
		option := ui.Element("option")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if value == "" {
			value = label
		}
		option.SetText(label)
		option.SetAttr("value", value)
		if valueSelected(field.Value, value) {
			option.SetFlag("selected", true)
		}
		sel.Append(option)
		return option
	}

	if field.Placeholder != "" {
		placeholder := addOption(field.Placeholder, "")
		placeholder.SetAttr("value", "")
		placeholder.SetFlag("disabled", true)
		placeholder.SetFlag("selected", formdef.FormatValue(field.Value) == "")
	}

	options := field.Enum
	if len(options) == 1 {
		if joined, ok := options[0].(string); ok && strings.Contains(joined, ",") {
			options = nil
			for _, part := range strings.Split(joined, ",") {
				options = append(options, part)
			}
		}
	}
	for i, value := range options {
		label := enumName(field, i, value)
		addOption(label, formdef.FormatValue(value))
	}
	if strings.HasSuffix(field.Type, "[]") {
		sel.SetFlag("multiple", true)
	}
	return Wrapper(field).Append(sel)
}

func enumName(field *formdef.Field, i int, value any) string {
	if i < len(field.EnumNames) {
		switch name := field.EnumNames[i].(type) {
		case map[string]any:
			if label := formdef.FormatValue(name["value"]); label != "" {
				return label
			}
		case nil:
		default:
			if label := formdef.FormatValue(name); label != "" {
				return label
			}
		}
	}
	return formdef.FormatValue(value)
}

func valueSelected(current any, option string) bool {
	switch v := current.(type) {
	case []any:
		for _, item := range v {
			if formdef.FormatValue(item) == option {
				return true
			}
		}
		return false
	case nil:
		return false
	default:
		return formdef.FormatValue(v) == option && option != ""
	}
}

// RadioOrCheckbox builds a single radio or checkbox control placed ahead of
// its label. The first enum entry is the checked value and the second, when
// present, the unchecked value.
func RadioOrCheckbox(field *formdef.Field) *ui.Node {
	wrapper := Wrapper(field)
	input := Control(field)
	if len(field.Enum) > 0 {
		input.SetAttr("value", formdef.FormatValue(field.Enum[0]))
	}
	if len(field.Enum) > 1 {
		input.SetData("uncheckedValue", formdef.FormatValue(field.Enum[1]))
	}
	wrapper.Prepend(input)
	return wrapper
}

// RadioOrCheckboxGroup builds a fieldset with one control per enum entry.
func RadioOrCheckboxGroup(field *formdef.Field) *ui.Node {
	wrapper := FieldSet(field)
	kind, _, _ := strings.Cut(field.FieldType, "-")

	if field.Variant() == "cards" {
		wrapper.AddClass("cards")
	}
	if layout, ok := field.Property(formdef.PropertyLayout).(map[string]any); ok {
		if formdef.FormatValue(layout["orientation"]) == "horizontal" {
			wrapper.AddClass("horizontal")
		}
	}

	for i, value := range field.Enum {
		id := optionID(field, i)
		option := RadioOrCheckbox(&formdef.Field{
			ID:        id,
			Name:      field.Name,
			FieldType: kind,
			Label:     &formdef.Label{Value: enumName(field, i, value)},
			Enum:      []any{value},
			Required:  field.Required,
		})
		control := option.Query("input")
		control.SetAttr("id", id)
		control.SetData("fieldType", field.FieldType)
		control.SetAttr("name", field.ID)
		control.SetFlag("checked", valueSelected(field.Value, formdef.FormatValue(value)))
		if field.Required && (kind == formdef.FieldTypeCheckbox || (kind == formdef.FieldTypeRadio && i == 0)) {
			control.SetFlag("required", true)
		}
		if field.Disabled() || field.ReadOnly {
			control.SetAttr("disabled", "disabled")
		}
		wrapper.Append(option)
	}

	wrapper.SetData("required", strconv.FormatBool(field.Required))
	if field.Tooltip != "" {
		wrapper.SetAttr("title", StripTags(field.Tooltip))
	}
	SetConstraintMessages(wrapper, field.ConstraintMessages)
	return wrapper
}

func optionID(field *formdef.Field, i int) string {
	base := field.ID
	if base == "" {
		base = field.Name
	}
	if i == 0 {
		return base + "-option"
	}
	return base + "-option-" + strconv.Itoa(i)
}

// SetConstraintMessages writes data-<kind>-error-message attributes.
func SetConstraintMessages(node *ui.Node, messages map[string]string) {
	kinds := make([]string, 0, len(messages))
	for kind := range messages {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		node.SetData(kind+"ErrorMessage", messages[kind])
	}
}

// Button builds a wrapped <button>. The wrapper holds only the button; a
// hidden label becomes the accessible name instead of visible text.
func Button(field *formdef.Field) *ui.Node {
	wrapper := Wrapper(field)
	if field.ButtonType != "" {
		wrapper.AddClass(field.ButtonType + "-wrapper")
	}
	buttonType := field.ButtonType
	if buttonType == "" {
		buttonType = "button"
	}
	button := ui.Element("button",
		ui.A("type", buttonType),
		ui.A("class", "button"),
		ui.A("id", field.ID),
		ui.A("name", field.Name),
	)
	if field.LabelHidden() {
		button.SetAttr("aria-label", field.LabelText())
	} else {
		button.SetText(field.LabelText())
	}
	if field.Disabled() {
		button.SetFlag("disabled", true)
	}
	wrapper.SetText("")
	return wrapper.Append(button)
}

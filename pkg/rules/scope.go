package rules

import (
	"strings"

	"github.com/goliatone/go-formrender/pkg/display"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Entry is a field together with its dotted name path; panel names act as
// prefixes.
type Entry struct {
	Path  string
	Field *formdef.Field
}

// Flatten lists every field below root depth-first in render order, reading
// :items/:itemsOrder and the run-time items list.
func Flatten(root *formdef.Field) []Entry {
	var out []Entry
	var walk func(field *formdef.Field, prefix string)
	walk = func(field *formdef.Field, prefix string) {
		children := field.OrderedChildren()
		children = append(children, field.List...)
		for _, child := range children {
			if child == nil {
				continue
			}
			path := joinPath(prefix, child.Name)
			out = append(out, Entry{Path: path, Field: child})
			if child.IsPanel() {
				walk(child, path)
			}
		}
	}
	if root != nil {
		walk(root, "")
	}
	return out
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

// Values collects the current field values keyed by name and dotted path,
// with data taking precedence over definition values.
func Values(root *formdef.Field, data map[string]any) map[string]any {
	out := make(map[string]any)
	for _, entry := range Flatten(root) {
		if entry.Field.IsPanel() || entry.Field.Name == "" {
			continue
		}
		value := entry.Field.Value
		if v, ok := lookupData(data, entry); ok {
			value = v
		}
		if _, taken := out[entry.Field.Name]; !taken {
			out[entry.Field.Name] = value
		}
		out[entry.Path] = value
	}
	for key, value := range data {
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}
	return out
}

// lookupData finds the submitted value of entry by dotted path, nested
// path, then bare name.
func lookupData(data map[string]any, entry Entry) (any, bool) {
	if len(data) == 0 || entry.Path == "" {
		return nil, false
	}
	if v, ok := data[entry.Path]; ok {
		return v, true
	}
	var current any = data
	found := true
	for _, segment := range strings.Split(entry.Path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			found = false
			break
		}
		if current, ok = m[segment]; !ok {
			found = false
			break
		}
	}
	if found {
		return current, true
	}
	v, ok := data[entry.Field.Name]
	return v, ok
}

// Prefill writes value into the controls inside wrapper: text-like inputs
// get a value attribute, radios and checkboxes their checked state, selects
// the selected option and textareas their content. Controls driven by a
// display machine keep it in sync.
func Prefill(wrapper *ui.Node, value any) {
	if wrapper == nil {
		return
	}
	text := formdef.FormatValue(value)
	for _, control := range collect(wrapper, "input,select,textarea") {
		switch control.Tag {
		case "textarea":
			control.SetText(text)
		case "select":
			for _, option := range control.QueryAll("option") {
				if option.HasAttr("disabled") && option.AttrValue("value") == "" {
					option.SetFlag("selected", false)
					continue
				}
				option.SetFlag("selected", matches(value, option.AttrValue("value")))
			}
		default:
			switch control.AttrValue("type") {
			case "radio", "checkbox":
				control.SetFlag("checked", matches(value, control.AttrValue("value")))
			case "file", "hidden", "submit", "button", "reset":
			default:
				if m, ok := display.For(control); ok {
					m.UpdateValues(text, text)
					continue
				}
				control.SetAttr("value", text)
			}
		}
	}
}

func matches(value any, option string) bool {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if formdef.FormatValue(item) == option {
				return true
			}
		}
		return false
	case []string:
		for _, item := range v {
			if item == option {
				return true
			}
		}
		return false
	case bool:
		if option == "on" || option == "true" {
			return v
		}
		return formdef.FormatValue(v) == option
	default:
		return option != "" && formdef.FormatValue(v) == option
	}
}

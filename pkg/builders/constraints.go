package builders

import (
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

type constraint struct {
	attr  string
	value func(*formdef.Field) any
}

var (
	textConstraints = []constraint{
		{"maxlength", func(f *formdef.Field) any { return f.MaxLength }},
		{"minlength", func(f *formdef.Field) any { return f.MinLength }},
		{"pattern", func(f *formdef.Field) any { return f.Pattern }},
	}
	rangeConstraints = []constraint{
		{"max", func(f *formdef.Field) any { return f.Maximum }},
		{"min", func(f *formdef.Field) any { return f.Minimum }},
		{"step", func(f *formdef.Field) any { return f.Step }},
	}
	fileConstraints = []constraint{
		{"accept", func(f *formdef.Field) any { return f.Accept }},
	}
	panelConstraints = []constraint{
		{"data-max", func(f *formdef.Field) any { return f.MaxOccur }},
		{"data-min", func(f *formdef.Field) any { return f.MinOccur }},
	}

	constraintsByType = map[string][]constraint{
		"password": textConstraints,
		"tel":      textConstraints,
		"email":    textConstraints,
		"text":     textConstraints,
		"number":   rangeConstraints,
		"range":    rangeConstraints,
		"date":     rangeConstraints,
		"file":     fileConstraints,
		"panel":    panelConstraints,
	}
)

// SetConstraints copies the render type's validation constraints onto node.
// Only values that are set (truthy) are written.
func SetConstraints(node *ui.Node, field *formdef.Field) {
	for _, c := range constraintsByType[field.RenderType()] {
		value := c.value(field)
		if formdef.Truthy(value) {
			node.SetAttr(c.attr, formdef.FormatValue(value))
		}
	}
}

// SetPlaceholder copies the placeholder when present.
func SetPlaceholder(node *ui.Node, field *formdef.Field) {
	if field.Placeholder != "" {
		node.SetAttr("placeholder", field.Placeholder)
	}
}

package decorate

import (
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Structural appends the author supplied CSS classes and tags the node with
// its column span (class col-N) so a layout grid can size it.
func Structural(field *formdef.Field, node *ui.Node) {
	if field.AppliedCSSClassNames != "" {
		node.AddClass(field.AppliedCSSClassNames)
	}
	span := field.ColumnSpan
	if !formdef.Truthy(span) {
		span = field.Property(formdef.PropertyColSpan)
	}
	if formdef.Truthy(span) {
		node.AddClass("col-" + formdef.FormatValue(span))
	}
}

package builders

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// LabelFunc builds the caption element for a field, or nil.
type LabelFunc func(field *formdef.Field) *ui.Node

var (
	nonAlnum    = regexp.MustCompile(`[^0-9a-z]`)
	dashRuns    = regexp.MustCompile(`-+`)
	edgeDashes  = regexp.MustCompile(`^-|-$`)
	htmlTagLike = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
)

// ClassName converts a field name into a class-safe token.
func ClassName(name string) string {
	out := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	out = dashRuns.ReplaceAllString(out, "-")
	return edgeDashes.ReplaceAllString(out, "")
}

// Label returns a <label for=id class=field-label> or nil when the field has
// no caption.
func Label(field *formdef.Field) *ui.Node {
	return caption(field, "label")
}

// Legend is Label rendered as a fieldset legend.
func Legend(field *formdef.Field) *ui.Node {
	return caption(field, "legend")
}

func caption(field *formdef.Field, tag string) *ui.Node {
	if field.LabelText() == "" {
		return nil
	}
	node := ui.Element(tag, ui.A("for", field.ID), ui.A("class", "field-label"))
	if field.Label.RichText {
		SetContent(node, field.Label.Value)
	} else {
		node.SetText(field.Label.Value)
	}
	if field.LabelHidden() {
		node.SetData("visible", "false")
	}
	if field.Tooltip != "" {
		node.SetAttr("title", StripTags(field.Tooltip))
	}
	return node
}

// Wrapper creates the standard field container: a <div> classed
// "<renderType>-wrapper field-<name> field-wrapper" holding the label.
func Wrapper(field *formdef.Field) *ui.Node {
	return WrapperWith(field, "div", Label)
}

// WrapperWith is Wrapper with a custom element tag and caption builder.
func WrapperWith(field *formdef.Field, tag string, label LabelFunc) *ui.Node {
	node := ui.Element(tag)
	classes := []string{field.RenderType() + "-wrapper"}
	if field.Name != "" {
		if class := ClassName(field.Name); class != "" {
			classes = append(classes, "field-"+class)
		}
	}
	classes = append(classes, "field-wrapper")
	node.AddClass(classes...)
	if field.Hidden() {
		node.SetData("visible", "false")
	}
	if label != nil && field.LabelText() != "" {
		node.Append(label(field))
	}
	return node
}

// HelpText builds the description node announced to assistive technology.
func HelpText(id, description string) *ui.Node {
	node := ui.Element("div",
		ui.A("class", "field-description"),
		ui.A("aria-live", "polite"),
		ui.A("id", id+"-description"),
	)
	SetContent(node, description)
	return node
}

// SetContent replaces the node content with value. Values containing markup
// are sanitized and parsed; plain strings stay text.
func SetContent(node *ui.Node, value string) {
	if !htmlTagLike.MatchString(value) {
		node.SetText(value)
		return
	}
	if err := node.SetInnerHTML(SanitizeRichText(value)); err != nil {
		node.SetText(StripTags(value))
	}
}

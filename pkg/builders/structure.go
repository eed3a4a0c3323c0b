package builders

import (
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// FieldSet builds a <fieldset> container with a legend. Panels get the
// panel-wrapper class; their children are added by the rendering engine.
func FieldSet(field *formdef.Field) *ui.Node {
	wrapper := WrapperWith(field, "fieldset", Legend)
	wrapper.SetAttr("id", field.ID)
	wrapper.SetAttr("name", field.Name)
	if field.IsPanel() {
		wrapper.AddClass("panel-wrapper")
	}
	return wrapper
}

// Heading renders the value, or the label when there is none, as an <h2>.
func Heading(field *formdef.Field) *ui.Node {
	text := field.StringValue()
	if text == "" {
		text = field.LabelText()
	}
	heading := ui.Element("h2", ui.A("id", field.ID))
	heading.SetText(text)
	return Wrapper(field).Append(heading)
}

// PlainText renders the value as a paragraph. Rich text is sanitized and
// kept as markup.
func PlainText(field *formdef.Field) *ui.Node {
	paragraph := ui.Element("p")
	if field.RichText {
		if err := paragraph.SetInnerHTML(SanitizeRichText(field.StringValue())); err != nil {
			paragraph.SetText(StripTags(field.StringValue()))
		}
	} else {
		paragraph.SetText(field.StringValue())
	}
	wrapper := Wrapper(field)
	wrapper.SetAttr("id", field.ID)
	wrapper.SetText("")
	return wrapper.Append(paragraph)
}

// Image renders a <picture> pointing at the value or the repository path.
func Image(field *formdef.Field) *ui.Node {
	wrapper := Wrapper(field)
	wrapper.SetAttr("id", field.ID)
	src := field.StringValue()
	if src == "" {
		src = field.StringProperty(formdef.PropertyRepoPath)
	}
	alt := field.AltText
	if alt == "" {
		alt = field.Name
	}
	picture := ui.Element("picture").Append(
		ui.Element("img", ui.A("loading", "lazy"), ui.A("alt", alt), ui.A("src", src)),
	)
	return wrapper.Append(picture)
}

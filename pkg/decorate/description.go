package decorate

import (
	"github.com/goliatone/go-formrender/pkg/builders"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

const (
	descriptionClass = "field-description"
	invalidClass     = "field-invalid"
)

// Description appends the help node and keeps the original text in
// data-description so it survives error messages.
func Description(field *formdef.Field, node *ui.Node) {
	if field.Description == "" {
		return
	}
	node.Append(builders.HelpText(field.ID, field.Description))
	node.SetData("description", field.Description)
}

// SetFieldError shows message in the wrapper's help node, creating it when
// missing, and marks the wrapper invalid. An empty message is the same as
// ClearFieldError.
func SetFieldError(wrapper *ui.Node, message string) *ui.Node {
	if message == "" {
		return ClearFieldError(wrapper)
	}
	help := wrapper.ChildMatching("." + descriptionClass)
	if help == nil {
		help = builders.HelpText(controlID(wrapper), "")
		wrapper.Append(help)
	}
	wrapper.AddClass(invalidClass)
	help.SetText(message)
	return help
}

// ClearFieldError restores the original description, or removes the help
// node when the field never had one.
func ClearFieldError(wrapper *ui.Node) *ui.Node {
	help := wrapper.ChildMatching("." + descriptionClass)
	wrapper.RemoveClass(invalidClass)
	original, ok := wrapper.Data("description")
	if !ok {
		if help != nil {
			help.Detach()
		}
		return nil
	}
	if help == nil {
		help = builders.HelpText(controlID(wrapper), "")
		wrapper.Append(help)
	}
	builders.SetContent(help, original)
	return help
}

// OriginalDescription returns the description recorded on the wrapper.
func OriginalDescription(wrapper *ui.Node) (string, bool) {
	return wrapper.Data("description")
}

func controlID(wrapper *ui.Node) string {
	if control := wrapper.Query(ControlSelector); control != nil {
		return control.AttrValue("id")
	}
	return wrapper.AttrValue("id")
}

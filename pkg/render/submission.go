package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrender/pkg/ui"
)

// HiddenField is a hidden input emitted alongside the rendered fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken carries an anti-forgery token under the backend's input name
// (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// AppendHidden adds hidden inputs at the end of form. Empty names are
// skipped; when a name repeats, the last value wins and an input already
// present in the form is updated in place.
func AppendHidden(form *ui.Node, fields ...HiddenField) {
	if form == nil {
		return
	}
	existing := make(map[string]*ui.Node)
	for _, input := range form.QueryAll(`input[type=hidden]`) {
		if name := input.AttrValue("name"); name != "" {
			existing[name] = input
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if input, ok := existing[name]; ok {
			input.SetAttr("value", field.Value)
			continue
		}
		input := ui.Element("input",
			ui.A("type", "hidden"),
			ui.A("name", name),
			ui.A("value", field.Value),
		)
		form.Append(input)
		existing[name] = input
	}
}

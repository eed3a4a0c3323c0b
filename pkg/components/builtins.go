package components

import (
	"context"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

func (r *Registry) registerBuiltins() {
	r.MustRegister(ComponentFile, 70, func(field *formdef.Field) bool {
		return field.RenderType() == "file"
	}, ComponentFunc(decorateFile))

	r.MustRegister(ComponentRange, 60, func(field *formdef.Field) bool {
		return field.RenderType() == "range"
	}, ComponentFunc(decorateRange))
}

// decorateFile adds a drop zone and the size limit to file inputs; array
// typed fields accept several files.
func decorateFile(_ context.Context, node *ui.Node, field *formdef.Field, _ *ui.Node, _ string) error {
	control := node.Query("input[type=file]")
	if control == nil {
		return nil
	}
	if strings.HasSuffix(field.Type, "[]") {
		control.SetFlag("multiple", true)
	}
	if size := formdef.FormatValue(field.MaxFileSize); size != "" {
		control.SetData("maxFileSize", size)
	}
	zone := ui.Element("div", ui.A("class", "file-drag-area"))
	zone.Append(
		ui.Element("div", ui.A("class", "file-dragicon")),
		ui.Element("div", ui.A("class", "file-dragtext")).SetText("Drag and Drop To Upload"),
		ui.Element("button", ui.A("type", "button"), ui.A("class", "file-attachButton")).SetText("Attach"),
	)
	node.InsertBefore(zone, control)
	zone.Append(control)
	node.Append(ui.Element("div", ui.A("class", "files-list")))
	return nil
}

// decorateRange shows the current value next to range sliders.
func decorateRange(_ context.Context, node *ui.Node, field *formdef.Field, _ *ui.Node, _ string) error {
	control := node.Query("input[type=range]")
	if control == nil {
		return nil
	}
	output := ui.Element("span", ui.A("class", "range-value")).SetText(control.AttrValue("value"))
	if lo := formdef.FormatValue(field.Minimum); lo != "" {
		output.SetData("min", lo)
	}
	if hi := formdef.FormatValue(field.Maximum); hi != "" {
		output.SetData("max", hi)
	}
	node.Append(output)
	return nil
}

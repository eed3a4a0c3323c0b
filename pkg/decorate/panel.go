package decorate

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/builders"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Class names of the controls inserted by the repeat group collaborator.
const (
	AddControlClass    = "repeat-actions"
	RemoveControlClass = "item-remove"
	PanelWrapperClass  = "panel-wrapper"
)

// ControlRequester inserts add/remove controls into a repeatable container.
type ControlRequester interface {
	RequestAddControl(container *ui.Node)
	RequestRemoveControl(container *ui.Node)
}

// WantsControls reports whether a repeatable panel instance should carry
// add/remove controls: only the first instance, and only when its variant
// does not suppress them.
func WantsControls(field *formdef.Field) bool {
	return field.Repeatable &&
		field.InstanceIndex() == 0 &&
		field.Variant() != formdef.VariantNoButtons
}

// RepeatablePanel applies the repeatable policy to a freshly built panel:
// repeat metadata, the instance index, plain properties as data attributes,
// occurrence constraints and, for the first instance, controls.
func RepeatablePanel(field *formdef.Field, wrapper *ui.Node, requester ControlRequester) {
	if !field.Repeatable {
		return
	}
	builders.SetConstraints(wrapper, field)
	wrapper.SetData("repeatable", "true")
	wrapper.SetData("index", strconv.Itoa(field.InstanceIndex()))
	keys := make([]string, 0, len(field.Properties))
	for key := range field.Properties {
		if !strings.HasPrefix(key, formdef.NamespacePrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		wrapper.SetData(key, attrValue(field.Properties[key]))
	}
	if requester != nil && WantsControls(field) {
		requester.RequestAddControl(wrapper)
		requester.RequestRemoveControl(wrapper)
	}
}

// PanelContainer finalises a panel after its children are attached: it
// restores a missing legend and requests controls the instance should have
// but lacks.
func PanelContainer(field *formdef.Field, container *ui.Node, requester ControlRequester) {
	if field == nil || container == nil || !container.HasClass(PanelWrapperClass) {
		return
	}
	if field.LabelText() != "" && ownLegend(field, container) == nil {
		container.Prepend(builders.Legend(field))
	}

	repeatable := container.AttrValue("data-repeatable") == "true" &&
		container.AttrValue("data-variant") != formdef.VariantNoButtons
	if !repeatable || requester == nil || !WantsControls(field) {
		return
	}
	if container.ChildMatching("."+AddControlClass) == nil {
		requester.RequestAddControl(container)
	}
	if container.ChildMatching("."+RemoveControlClass) == nil {
		requester.RequestRemoveControl(container)
	}
}

// ownLegend returns the direct legend captioning field, ignoring legends
// carried over from nested or transferred panels.
func ownLegend(field *formdef.Field, container *ui.Node) *ui.Node {
	for _, child := range container.Children {
		if child.Tag == "legend" && child.AttrValue("for") == field.ID {
			return child
		}
	}
	return nil
}

func attrValue(value any) string {
	switch value.(type) {
	case map[string]any, []map[string]any:
		payload, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(payload)
	default:
		return formdef.FormatValue(value)
	}
}

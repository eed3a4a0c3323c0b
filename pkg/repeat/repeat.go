// Package repeat supplies the default repeatable-panel collaborator: it adds
// add/remove controls to panel instances and groups sibling instances under
// a common wrapper once the form is built.
package repeat

import (
	"github.com/goliatone/go-formrender/pkg/decorate"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Class names used by the repeat markup.
const (
	WrapperClass   = "repeat-wrapper"
	AddButtonClass = "item-add"
	DefaultVariant = "addDeleteButtons"
)

// Option configures a Group.
type Option func(*Group)

// WithLabels overrides the add and remove button captions.
func WithLabels(add, remove string) Option {
	return func(g *Group) {
		if add != "" {
			g.addLabel = add
		}
		if remove != "" {
			g.removeLabel = remove
		}
	}
}

// Group inserts repeat controls and wraps instances. It keeps no state
// between calls and is safe for concurrent use on distinct containers.
type Group struct {
	addLabel    string
	removeLabel string
}

// New returns a Group with English captions.
func New(opts ...Option) *Group {
	g := &Group{addLabel: "Add", removeLabel: "Delete"}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// RequestAddControl appends the add button block to container.
func (g *Group) RequestAddControl(container *ui.Node) {
	if container == nil || container.ChildMatching("."+decorate.AddControlClass) != nil {
		return
	}
	button := ui.Element("button",
		ui.A("type", "button"),
		ui.A("class", AddButtonClass),
	).SetText(g.addLabel)
	if id := container.AttrValue("id"); id != "" {
		button.SetData("for", id)
	}
	actions := ui.Element("div", ui.A("class", decorate.AddControlClass))
	container.Append(actions.Append(button))
}

// RequestRemoveControl appends the remove button to container.
func (g *Group) RequestRemoveControl(container *ui.Node) {
	if container == nil || container.ChildMatching("."+decorate.RemoveControlClass) != nil {
		return
	}
	button := ui.Element("button",
		ui.A("type", "button"),
		ui.A("class", decorate.RemoveControlClass),
	).SetText(g.removeLabel)
	container.Append(button)
}

// Transfer wraps every first instance of a repeatable panel, together with
// the sibling instances sharing its name, in a <fieldset class=repeat-wrapper>
// carrying the occurrence bounds. The add block moves to the end of the
// wrapper so it follows the last instance.
func (g *Group) Transfer(form *ui.Node) {
	if form == nil {
		return
	}
	for _, first := range form.QueryAll(`[data-repeatable=true][data-index=0]`) {
		parent := first.Parent()
		if parent == nil || parent.HasClass(WrapperClass) {
			continue
		}
		wrapper := ui.Element("fieldset", ui.A("class", WrapperClass))
		copyData(first, wrapper, "min", "max")
		variant := first.AttrValue("data-variant")
		if variant == "" {
			variant = DefaultVariant
		}
		wrapper.SetData("variant", variant)
		wrapper.SetData("id", first.AttrValue("id"))

		instances := siblingInstances(parent, first)
		parent.InsertBefore(wrapper, first)
		wrapper.Append(instances...)

		if actions := first.ChildMatching("." + decorate.AddControlClass); actions != nil {
			wrapper.Append(actions)
		}
	}
}

func siblingInstances(parent, first *ui.Node) []*ui.Node {
	name := first.AttrValue("name")
	instances := []*ui.Node{first}
	started := false
	for _, child := range parent.Elements() {
		if child == first {
			started = true
			continue
		}
		if !started || child.AttrValue("data-repeatable") != "true" {
			continue
		}
		if name != "" && child.AttrValue("name") == name {
			instances = append(instances, child)
		}
	}
	return instances
}

func copyData(from, to *ui.Node, keys ...string) {
	for _, key := range keys {
		if value, ok := from.Data(key); ok {
			to.SetData(key, value)
		}
	}
}

package ui

import (
	"sort"
	"strings"
	"sync"
)

// Attr is a single element attribute.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is an element or, when Tag is empty, a text node.
type Node struct {
	Tag      string
	Text     string
	Attrs    []Attr
	Children []*Node

	parent *Node

	mu       sync.Mutex
	bindings map[string]any
}

// Element creates an element node with the given tag.
func Element(tag string, attrs ...Attr) *Node {
	n := &Node{Tag: strings.ToLower(tag)}
	for _, attr := range attrs {
		n.SetAttr(attr.Key, attr.Value)
	}
	return n
}

// TextNode creates a text node.
func TextNode(text string) *Node {
	return &Node{Text: text}
}

// A is a shorthand attribute constructor.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Tag == ""
}

// Parent returns the node n was appended to, if any.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value or "".
func (n *Node) AttrValue(key string) string {
	value, _ := n.Attr(key)
	return value
}

// HasAttr reports whether the attribute is set.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr sets or replaces an attribute, keeping the original position.
func (n *Node) SetAttr(key, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
	return n
}

// SetFlag sets a boolean attribute when on, removes it otherwise.
func (n *Node) SetFlag(key string, on bool) *Node {
	if on {
		return n.SetAttr(key, "")
	}
	return n.RemoveAttr(key)
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(key string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			break
		}
	}
	return n
}

// SetData sets a data-* attribute. Camel-case keys are converted to the
// dashed attribute form, so "maxItems" becomes data-max-items.
func (n *Node) SetData(key, value string) *Node {
	return n.SetAttr(DataAttr(key), value)
}

// Data reads a data-* attribute using the same key conversion as SetData.
func (n *Node) Data(key string) (string, bool) {
	return n.Attr(DataAttr(key))
}

// DataAttr converts a dataset key to its attribute name.
func DataAttr(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Classes returns the class list.
func (n *Node) Classes() []string {
	return strings.Fields(n.AttrValue("class"))
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	for _, class := range n.Classes() {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends classes that are not already present.
func (n *Node) AddClass(names ...string) *Node {
	classes := n.Classes()
	for _, name := range names {
		for _, part := range strings.Fields(name) {
			if !contains(classes, part) {
				classes = append(classes, part)
			}
		}
	}
	if len(classes) > 0 {
		n.SetAttr("class", strings.Join(classes, " "))
	}
	return n
}

// RemoveClass drops the named class.
func (n *Node) RemoveClass(name string) *Node {
	classes := n.Classes()
	out := classes[:0]
	for _, class := range classes {
		if class != name {
			out = append(out, class)
		}
	}
	if len(out) == 0 {
		return n.RemoveAttr("class")
	}
	return n.SetAttr("class", strings.Join(out, " "))
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// Append adds children in order. Nil children are skipped and nodes already
// attached elsewhere are detached first.
func (n *Node) Append(children ...*Node) *Node {
	children = append([]*Node(nil), children...)
	for _, child := range children {
		if child == nil {
			continue
		}
		child.Detach()
		child.parent = n
		n.Children = append(n.Children, child)
	}
	return n
}

// Prepend inserts child as the first child.
func (n *Node) Prepend(child *Node) *Node {
	if child == nil {
		return n
	}
	child.Detach()
	child.parent = n
	n.Children = append([]*Node{child}, n.Children...)
	return n
}

// InsertBefore inserts child ahead of ref. When ref is not a child of n the
// node is appended.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child == nil {
		return n
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		return n.Append(child)
	}
	child.Detach()
	child.parent = n
	n.Children = append(n.Children[:idx], append([]*Node{child}, n.Children[idx:]...)...)
	return n
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	if n == nil || n.parent == nil {
		return
	}
	parent := n.parent
	if idx := parent.indexOf(n); idx >= 0 {
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	}
	n.parent = nil
}

func (n *Node) indexOf(child *Node) int {
	if child == nil {
		return -1
	}
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetText replaces all children with a single text node.
func (n *Node) SetText(text string) *Node {
	for _, child := range n.Children {
		child.parent = nil
	}
	n.Children = nil
	if text != "" {
		n.Append(TextNode(text))
	}
	return n
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	n.Walk(func(node *Node) bool {
		if node.IsText() {
			b.WriteString(node.Text)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth first. Returning false from visit
// skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, child := range n.Children {
		if !child.IsText() {
			out = append(out, child)
		}
	}
	return out
}

// Bind stores a non-serialised value on the node, used to attach behaviour
// such as state machines to controls.
func (n *Node) Bind(key string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bindings == nil {
		n.bindings = make(map[string]any)
	}
	n.bindings[key] = value
}

// Binding returns a value stored with Bind.
func (n *Node) Binding(key string) (any, bool) {
	if n == nil {
		return nil, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	value, ok := n.bindings[key]
	return value, ok
}

// BindingKeys lists the binding keys in sorted order.
func (n *Node) BindingKeys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	keys := make([]string, 0, len(n.bindings))
	for key := range n.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies the element tree rooted at n. Bindings are not copied and
// the clone is detached.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, child := range n.Children {
		out.Append(child.Clone())
	}
	return out
}

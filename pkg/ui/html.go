package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts the tree rooted at n into an x/net/html node tree.
func ToHTML(n *Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, attr := range n.Attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: attr.Key, Val: attr.Value})
	}
	for _, child := range n.Children {
		out.AppendChild(ToHTML(child))
	}
	return out
}

// FromHTML converts an x/net/html node into a ui node. Comments and doctype
// nodes are dropped and yield nil.
func FromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return TextNode(h.Data)
	case html.ElementNode:
		n := Element(h.Data)
		for _, attr := range h.Attr {
			n.SetAttr(attr.Key, attr.Val)
		}
		for child := h.FirstChild; child != nil; child = child.NextSibling {
			n.Append(FromHTML(child))
		}
		return n
	default:
		return nil
	}
}

// Render writes the HTML serialisation of n.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	if err := html.Render(w, ToHTML(n)); err != nil {
		return fmt.Errorf("ui: render html: %w", err)
	}
	return nil
}

// HTML returns the HTML serialisation of n.
func HTML(n *Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// ParseFragment parses an HTML fragment in a <div> context and returns the
// resulting top-level nodes.
func ParseFragment(fragment string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("ui: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if converted := FromHTML(node); converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// SetInnerHTML replaces the children of n with the parsed fragment.
func (n *Node) SetInnerHTML(fragment string) error {
	nodes, err := ParseFragment(fragment)
	if err != nil {
		return err
	}
	n.SetText("")
	n.Append(nodes...)
	return nil
}

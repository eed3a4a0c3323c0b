package ui

import "encoding/json"

type jsonNode struct {
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// MarshalJSON encodes the node as {tag, attrs, text, children}. Bindings are
// not serialised.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := jsonNode{Tag: n.Tag, Text: n.Text, Children: n.Children}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for _, attr := range n.Attrs {
			out.Attrs[attr.Key] = attr.Value
		}
	}
	return json.Marshal(out)
}

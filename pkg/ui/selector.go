package ui

import "strings"

// Selector is a parsed, comma separated list of compound selectors. Each
// compound supports a tag, #id, .class and [attr] / [attr=value] parts.
// Combinators are not supported.
type Selector []compound

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	value    string
	hasValue bool
}

// ParseSelector parses a selector list. Malformed parts are ignored.
func ParseSelector(raw string) Selector {
	var out Selector
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, parseCompound(part))
	}
	return out
}

func parseCompound(raw string) compound {
	var c compound
	for raw != "" {
		switch raw[0] {
		case '#', '.':
			end := 1 + strings.IndexAny(raw[1:]+"#.[", "#.[")
			name := raw[1:end]
			if raw[0] == '#' {
				c.id = name
			} else {
				c.classes = append(c.classes, name)
			}
			raw = raw[end:]
		case '[':
			end := strings.IndexByte(raw, ']')
			if end < 0 {
				return c
			}
			body := raw[1:end]
			match := attrMatch{key: body}
			if key, value, ok := strings.Cut(body, "="); ok {
				match = attrMatch{key: key, value: strings.Trim(value, `"'`), hasValue: true}
			}
			c.attrs = append(c.attrs, match)
			raw = raw[end+1:]
		default:
			end := strings.IndexAny(raw, "#.[")
			if end < 0 {
				end = len(raw)
			}
			c.tag = strings.ToLower(raw[:end])
			raw = raw[end:]
		}
	}
	return c
}

// Match reports whether n satisfies any compound in the list.
func (s Selector) Match(n *Node) bool {
	if n == nil || n.IsText() {
		return false
	}
	for _, c := range s {
		if c.match(n) {
			return true
		}
	}
	return false
}

func (c compound) match(n *Node) bool {
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag {
		return false
	}
	if c.id != "" && n.AttrValue("id") != c.id {
		return false
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.attrs {
		value, ok := n.Attr(attr.key)
		if !ok || (attr.hasValue && value != attr.value) {
			return false
		}
	}
	return true
}

// Query returns the first descendant of n (n excluded) matching selector, in
// document order.
func (n *Node) Query(selector string) *Node {
	sel := ParseSelector(selector)
	var found *Node
	for _, child := range n.Children {
		child.Walk(func(node *Node) bool {
			if found != nil {
				return false
			}
			if sel.Match(node) {
				found = node
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// QueryAll returns every descendant of n matching selector in document order.
func (n *Node) QueryAll(selector string) []*Node {
	sel := ParseSelector(selector)
	var out []*Node
	for _, child := range n.Children {
		child.Walk(func(node *Node) bool {
			if sel.Match(node) {
				out = append(out, node)
			}
			return true
		})
	}
	return out
}

// ChildMatching returns the first direct child matching selector.
func (n *Node) ChildMatching(selector string) *Node {
	sel := ParseSelector(selector)
	for _, child := range n.Children {
		if sel.Match(child) {
			return child
		}
	}
	return nil
}

// Closest returns n or its nearest ancestor matching selector.
func (n *Node) Closest(selector string) *Node {
	sel := ParseSelector(selector)
	for cur := n; cur != nil; cur = cur.parent {
		if sel.Match(cur) {
			return cur
		}
	}
	return nil
}

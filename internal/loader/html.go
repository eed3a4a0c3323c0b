package loader

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrender/pkg/ui"
)

// ErrNoEmbeddedDefinition is returned when an HTML page carries no
// <pre><code> block.
var ErrNoEmbeddedDefinition = errors.New("no <pre><code> definition block")

func looksLikeHTML(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// ExtractDefinition returns the text of the first <code> inside the first
// <pre> of an HTML page.
func ExtractDefinition(page []byte) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	pre := findElement(doc, atom.Pre)
	if pre == nil {
		return nil, ErrNoEmbeddedDefinition
	}
	code := ui.FromHTML(pre).Query("code")
	if code == nil {
		return nil, ErrNoEmbeddedDefinition
	}
	content := bytes.TrimSpace([]byte(code.TextContent()))
	if len(content) == 0 {
		return nil, ErrNoEmbeddedDefinition
	}
	return content, nil
}

func findElement(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

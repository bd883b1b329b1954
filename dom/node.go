// Package dom models a lightweight snapshot of a rendered DOM subtree:
// element and text nodes in document order, each element carrying the three
// computed-style properties the extraction engine cares about. Snapshots are
// decoded from the in-page serializer (see scraper.CaptureSnapshot) or built
// from static HTML with ParseHTML, so extraction logic never needs a live
// browser.
package dom

import (
	"encoding/json"
	"strings"
)

// Style holds the computed-style subset used for visibility decisions.
type Style struct {
	Display    string `json:"display,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	Opacity    string `json:"opacity,omitempty"`
}

// Node is one DOM node. Elements have a Tag; text nodes have an empty Tag
// and their character data in Text. Children preserve document order, with
// text nodes interleaved between child elements exactly as in the source.
type Node struct {
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    Style             `json:"style"`
	Children []*Node           `json:"children,omitempty"`

	parent *Node
}

// Document wraps a snapshot root (typically <body>).
type Document struct {
	Root *Node
}

// Decode unmarshals a serialized snapshot and links parent pointers.
func Decode(data []byte) (*Document, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	link(&root, nil)
	return &Document{Root: &root}, nil
}

func link(n *Node, parent *Node) {
	n.parent = parent
	for _, c := range n.Children {
		link(c, n)
	}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == "" }

// Parent returns the parent node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasClasses reports whether the node's class attribute contains every
// name in classes.
func (n *Node) HasClasses(classes ...string) bool {
	have := strings.Fields(n.Attr("class"))
	for _, want := range classes {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TextContent concatenates the character data of all descendant text nodes
// in document order, like the DOM textContent property.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

// Walk visits every node in document order (pre-order). Returning false
// from fn stops the traversal.
func (d *Document) Walk(fn func(*Node) bool) {
	if d == nil || d.Root == nil {
		return
	}
	walk(d.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order satisfying pred, or nil.
func (d *Document) Find(pred func(*Node) bool) *Node {
	var hit *Node
	d.Walk(func(n *Node) bool {
		if pred(n) {
			hit = n
			return false
		}
		return true
	})
	return hit
}

// FindAll returns every node in document order satisfying pred.
func (d *Document) FindAll(pred func(*Node) bool) []*Node {
	var hits []*Node
	d.Walk(func(n *Node) bool {
		if pred(n) {
			hits = append(hits, n)
		}
		return true
	})
	return hits
}

// Elements returns the element descendants of n (n excluded) with the given
// tag, in document order.
func (n *Node) Elements(tag string) []*Node {
	var hits []*Node
	for _, c := range n.Children {
		if !c.IsText() && c.Tag == tag {
			hits = append(hits, c)
		}
		hits = append(hits, c.Elements(tag)...)
	}
	return hits
}

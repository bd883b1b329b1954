package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML builds a Document from static HTML. It mirrors the shape the
// in-page serializer produces: the tree is rooted at <body>, script/style
// subtrees and whitespace-only text nodes are dropped, and Style is filled
// from inline style attributes only — there is no cascade here, so class
// based hiding is invisible to this path. Used by tests and as the degraded
// snapshot source when in-page capture fails.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	body := findBody(root)
	if body == nil {
		body = root
	}

	n := convert(body)
	if n == nil {
		n = &Node{Tag: "body"}
	}
	link(n, nil)
	return &Document{Root: n}, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

var skipTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

func convert(src *html.Node) *Node {
	switch src.Type {
	case html.TextNode:
		if strings.TrimSpace(src.Data) == "" {
			return nil
		}
		return &Node{Text: src.Data}
	case html.ElementNode:
		if _, skip := skipTags[src.Data]; skip {
			return nil
		}
		n := &Node{Tag: src.Data}
		if len(src.Attr) > 0 {
			n.Attrs = make(map[string]string, len(src.Attr))
			for _, a := range src.Attr {
				n.Attrs[a.Key] = a.Val
			}
		}
		n.Style = styleFromInline(n.Attr("style"))
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		return n
	default:
		return nil
	}
}

// styleFromInline extracts the three tracked properties from an inline
// style attribute like "display:none; opacity: 0".
func styleFromInline(inline string) Style {
	var st Style
	if inline == "" {
		return st
	}
	for _, decl := range strings.Split(inline, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		switch name {
		case "display":
			st.Display = value
		case "visibility":
			st.Visibility = value
		case "opacity":
			st.Opacity = value
		}
	}
	return st
}

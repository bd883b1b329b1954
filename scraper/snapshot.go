package scraper

import (
	"errors"

	"github.com/go-rod/rod"

	"github.com/Miho1254/peopo-mercari-scrapper/dom"
)

// domSnapshotJS serializes the rendered body into the dom package's node
// shape, resolving computed styles inside the browser so the Go side never
// needs a live DOM. Script/style subtrees and whitespace-only text nodes
// are dropped; everything else, text nodes included, keeps document order.
const domSnapshotJS = `() => {
	function build(node) {
		if (node.nodeType === Node.TEXT_NODE) {
			const t = node.nodeValue || "";
			if (!t.trim()) return null;
			return { text: t };
		}
		if (node.nodeType !== Node.ELEMENT_NODE) return null;
		const tag = node.tagName.toLowerCase();
		if (tag === "script" || tag === "style" || tag === "noscript" || tag === "template") return null;
		const attrs = {};
		for (const a of node.attributes) attrs[a.name] = a.value;
		const cs = getComputedStyle(node);
		const out = {
			tag,
			attrs,
			style: { display: cs.display, visibility: cs.visibility, opacity: cs.opacity },
			children: [],
		};
		for (const child of node.childNodes) {
			const c = build(child);
			if (c) out.children.push(c);
		}
		return out;
	}
	return JSON.stringify(build(document.body));
}`

// CaptureSnapshot evaluates the serializer against the live page and
// decodes the result into a styled DOM snapshot.
func CaptureSnapshot(p *rod.Page) (*dom.Document, error) {
	res, err := p.Eval(domSnapshotJS)
	if err != nil {
		return nil, err
	}
	raw := res.Value.Str()
	if raw == "" || raw == "null" {
		return nil, errors.New("page has no body to serialize")
	}
	return dom.Decode([]byte(raw))
}

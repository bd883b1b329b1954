package extract

import (
	"strings"
	"testing"

	"github.com/Miho1254/peopo-mercari-scrapper/dom"
)

func findByID(t *testing.T, doc *dom.Document, id string) *dom.Node {
	t.Helper()
	n := doc.Find(func(n *dom.Node) bool { return n.Attr("id") == id })
	if n == nil {
		t.Fatalf("fixture node #%s not found", id)
	}
	return n
}

func TestNearCurrencyMarker(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		maxHops int
		want    bool
	}{
		{
			name:    "own text",
			markup:  `<p id="x">¥ 1,199</p>`,
			maxHops: 4,
			want:    true,
		},
		{
			name:    "element sibling",
			markup:  `<div><span>¥</span><span id="x">1,199</span></div>`,
			maxHops: 4,
			want:    true,
		},
		{
			name:    "kanji marker",
			markup:  `<div><span id="x">3,300</span><span>円</span></div>`,
			maxHops: 4,
			want:    true,
		},
		{
			name: "marker two levels up",
			markup: `<div><span>¥</span><div><div>
				<span id="x">1,199</span>
			</div></div></div>`,
			maxHops: 4,
			want:    true,
		},
		{
			name: "marker beyond hop budget",
			markup: `<div><span>¥</span><div><div><div><div><div>
				<span id="x">1,199</span>
			</div></div></div></div></div></div>`,
			maxHops: 4,
			want:    false,
		},
		{
			name:    "no marker at all",
			markup:  `<div><span id="x">1,199</span></div>`,
			maxHops: 4,
			want:    false,
		},
		{
			name:    "zero budget",
			markup:  `<p id="x">¥ 1,199</p>`,
			maxHops: 0,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dom.ParseHTML(strings.NewReader("<html><body>" + tt.markup + "</body></html>"))
			if err != nil {
				t.Fatalf("parse fixture: %v", err)
			}
			n := findByID(t, doc, "x")
			if got := NearCurrencyMarker(n, tt.maxHops); got != tt.want {
				t.Errorf("NearCurrencyMarker = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name  string
		style dom.Style
		want  bool
	}{
		{"default", dom.Style{}, true},
		{"block", dom.Style{Display: "block", Visibility: "visible", Opacity: "1"}, true},
		{"display none", dom.Style{Display: "none"}, false},
		{"visibility hidden", dom.Style{Visibility: "hidden"}, false},
		{"opacity zero", dom.Style{Opacity: "0"}, false},
		{"fractional opacity", dom.Style{Opacity: "0.5"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.style); got != tt.want {
				t.Errorf("IsVisible(%+v) = %v, want %v", tt.style, got, tt.want)
			}
		})
	}
}

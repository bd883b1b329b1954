package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + markup + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestFirstMatchingTextPreferenceOrder(t *testing.T) {
	// The semantic marker outranks the structural selectors even when it
	// appears later in the document.
	doc := mustDoc(t, `
		<main><h1>Wrong title</h1></main>
		<span data-testid="item-title">Nikon FE2 ボディ</span>`)

	got := FirstMatchingText(doc, TitleSelectors)
	if got == nil || *got != "Nikon FE2 ボディ" {
		t.Fatalf("got %v, want the data-testid title", got)
	}
}

func TestFirstMatchingTextFallsThroughEmptyMatches(t *testing.T) {
	// An element that matches but has no text does not satisfy the
	// selector; the next one in order is tried.
	doc := mustDoc(t, `
		<span data-testid="item-title">   </span>
		<main><h1>Canon AE-1</h1></main>`)

	got := FirstMatchingText(doc, TitleSelectors)
	if got == nil || *got != "Canon AE-1" {
		t.Fatalf("got %v, want the main h1 fallback", got)
	}
}

func TestFirstMatchingTextNoMatch(t *testing.T) {
	doc := mustDoc(t, `<div>no headings here</div>`)

	if got := FirstMatchingText(doc, TitleSelectors); got != nil {
		t.Fatalf("got %q, want nil", *got)
	}
}

func TestFirstMatchingTextSkipsInvalidSelector(t *testing.T) {
	doc := mustDoc(t, `<h1>Title</h1>`)

	got := FirstMatchingText(doc, []string{"[[[", "h1"})
	if got == nil || *got != "Title" {
		t.Fatalf("got %v, want invalid selector skipped and h1 matched", got)
	}
}

func TestSellerSelectors(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "testid marker",
			markup: `<span data-testid="seller-name">カメラ屋さん</span>`,
			want:   "カメラ屋さん",
		},
		{
			name:   "profile link fallback",
			markup: `<a href="/user/profile/12345">中古カメラ店</a>`,
			want:   "中古カメラ店",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstMatchingText(mustDoc(t, tt.markup), SellerSelectors)
			if got == nil || *got != tt.want {
				t.Fatalf("got %v, want %q", got, tt.want)
			}
		})
	}
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// FirstMatchingText resolves each selector in order against the rendered
// document and returns the trimmed text of the first match that has any.
// Selector compile errors are swallowed and treated as a non-match.
func FirstMatchingText(doc *goquery.Document, selectors []string) *string {
	for _, raw := range selectors {
		sel, err := cascadia.Compile(raw)
		if err != nil {
			continue
		}
		txt := strings.TrimSpace(doc.FindMatcher(sel).First().Text())
		if txt != "" {
			return &txt
		}
	}
	return nil
}

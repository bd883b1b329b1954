package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageSources returns the src attribute of every <img> on the page in
// document order, empty and inline-encoded values included — FirstImage
// does the filtering.
func ImageSources(doc *goquery.Document) []string {
	var srcs []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})
	return srcs
}

// firstPhotoRe matches the canonical first-photo filename, item id followed
// by "_1" and an image extension.
var firstPhotoRe = regexp.MustCompile(`(?i)/m\d+_1\.(?:jpg|jpeg|png|webp)`)

// FirstImage picks the listing's primary photo from the page's image
// sources. The pipeline discards empty and data-URI sources, known
// non-content images (seller badges, thumbnail-service URLs) and — when the
// item id is known — photos belonging to other items, such as the
// recommended-items carousel. Among survivors the "_1" photo wins, else the
// first in document order. When the pipeline leaves nothing, the first
// image element on the page is returned unfiltered so the field is rarely
// nil.
func FirstImage(sources []string, itemID *string) *string {
	var kept []string
	for _, src := range sources {
		if src == "" || strings.HasPrefix(src, "data:image") {
			continue
		}
		if strings.Contains(src, "/images/badges/seller") || strings.Contains(src, "/thumb/item/") {
			continue
		}
		if itemID != nil && !strings.Contains(src, "/"+*itemID+"_") {
			continue
		}
		kept = append(kept, src)
	}

	for _, src := range kept {
		if firstPhotoRe.MatchString(src) {
			hit := src
			return &hit
		}
	}
	if len(kept) > 0 {
		hit := kept[0]
		return &hit
	}

	if len(sources) > 0 && sources[0] != "" {
		hit := sources[0]
		return &hit
	}
	return nil
}

// Package extract implements the field-extraction engine for Mercari item
// pages: the ordered price cascade, visibility filtering, currency-marker
// proximity search and the title/seller/image selectors. Everything here is
// pure — it operates on dom snapshots and goquery documents, never on a
// live browser.
package extract

import "regexp"

// Item pages look like https://jp.mercari.com/item/m12345678901.
var (
	itemURLRe = regexp.MustCompile(`(?i)^https?://jp\.mercari\.com/item/m\d+`)
	itemIDRe  = regexp.MustCompile(`(?i)/item/(m\d+)`)
)

// Selector preference orders for the text fields. Semantic test markers
// come first; build-hashed class names are never used here.
var (
	TitleSelectors  = []string{"[data-testid='item-title']", "main h1", "h1"}
	SellerSelectors = []string{"[data-testid='seller-name']", "a[href^='/user/profile/']"}
)

// IsItemURL reports whether u has the item-detail URL shape.
func IsItemURL(u string) bool {
	return itemURLRe.MatchString(u)
}

// ItemID pulls the item token (a letter followed by digits) out of an item
// URL, or nil when the URL does not carry one.
func ItemID(u string) *string {
	m := itemIDRe.FindStringSubmatch(u)
	if m == nil {
		return nil
	}
	id := m[1]
	return &id
}

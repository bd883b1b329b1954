package extract

import (
	"regexp"

	"github.com/Miho1254/peopo-mercari-scrapper/dom"
)

// proximityHops is the calibrated markup depth between a price figure and
// its currency glyph. Larger budgets start matching unrelated prices: the
// related-items carousel shares ancestors a few levels up.
const proximityHops = 4

var currencyMarkerRe = regexp.MustCompile(`[¥円]`)

// NearCurrencyMarker walks upward from n through at most maxHops ancestor
// levels. At each level it checks the current node's text content and the
// text of the current node's element siblings for a currency marker,
// returning true on the first hit and false when the hop budget runs out.
func NearCurrencyMarker(n *dom.Node, maxHops int) bool {
	cur := n
	for i := 0; i < maxHops && cur != nil; i++ {
		if currencyMarkerRe.MatchString(cur.TextContent()) {
			return true
		}
		if par := cur.Parent(); par != nil {
			for _, sib := range par.Children {
				if sib == cur || sib.IsText() {
					continue
				}
				if currencyMarkerRe.MatchString(sib.TextContent()) {
					return true
				}
			}
		}
		cur = cur.Parent()
	}
	return false
}

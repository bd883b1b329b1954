package extract

import "github.com/Miho1254/peopo-mercari-scrapper/dom"

// IsVisible reports whether a node with the given computed style is actually
// rendered. Mercari keeps legacy-price and placeholder markup in the DOM but
// hides it; anything failing this check is excluded from every candidate
// pool.
func IsVisible(st dom.Style) bool {
	return st.Display != "none" && st.Visibility != "hidden" && st.Opacity != "0"
}

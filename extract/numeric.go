package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numTokenRe is the numeric-token grammar for price figures: grouped digits
// like "1,199" or a bare digit run. Thousands separators and decimal points
// are visually too similar to distinguish, so prices are integer yen only.
var numTokenRe = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})*|\d+)$`)

func isNumericToken(s string) bool {
	return numTokenRe.MatchString(s)
}

// ParseIntLike strips every non-digit character from s and parses the rest
// as a base-10 integer. Returns nil when nothing is left or the value
// overflows; malformed input never produces an error.
func ParseIntLike(s string) *int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	raw := b.String()
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

var jaPrinter = message.NewPrinter(language.Japanese)

// FormatPriceText renders a parsed amount back into the canonical display
// form, e.g. 1199 → "¥ 1,199". Result records always carry this regenerated
// form, never the scraped substring.
func FormatPriceText(amount int) string {
	return "¥ " + jaPrinter.Sprintf("%d", amount)
}

package extract

import (
	"regexp"
	"strings"

	"github.com/Miho1254/peopo-mercari-scrapper/dom"
)

const currencySymbol = "¥"

// Candidate is one unverified price match produced by a strategy, before
// numeric parsing.
type Candidate struct {
	RawText     string
	NumericText string
}

// Strategy is a single independent price-extraction heuristic. Strategies
// are pure Document → Candidate functions; adding, reordering or retiring
// one never requires touching the others.
type Strategy interface {
	Name() string
	Extract(doc *dom.Document) *Candidate
}

// Cascade is an ordered strategy list reduced by first success.
type Cascade []Strategy

// Extract runs the strategies in order and returns the first non-nil
// candidate together with the name of the strategy that produced it.
func (c Cascade) Extract(doc *dom.Document) (*Candidate, string) {
	for _, s := range c {
		if hit := s.Extract(doc); hit != nil {
			return hit, s.Name()
		}
	}
	return nil, ""
}

// CascadeConfig carries the site-specific knobs of the price cascade.
type CascadeConfig struct {
	// SectionTestID is the data-testid value of the converted-currency box.
	// A semantic marker attribute, stable across redeploys.
	SectionTestID string

	// PriceClasses is the compiled style-class signature of price caption
	// elements. Build-hash dependent and expected to go stale; override it
	// via configuration when the site redeploys.
	PriceClasses []string
}

// DefaultCascadeConfig returns the currently observed markup signature.
func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		SectionTestID: "converted-currency-section",
		PriceClasses:  []string{"merText", "caption__5616e150", "primary__5616e150"},
	}
}

// NewCascade builds the standard three-strategy cascade. The styled-class
// strategy is deliberately ranked second: the structured section is
// semantically stable while class names are not.
func NewCascade(cfg CascadeConfig) Cascade {
	return Cascade{
		convertedSectionStrategy{testID: cfg.SectionTestID},
		styledClassStrategy{classes: cfg.PriceClasses},
		proximityStrategy{},
	}
}

// joinedPriceRe matches "¥ 123,456" inside a concatenated text run.
var joinedPriceRe = regexp.MustCompile(`¥\s*([\d,]+)`)

// convertedSectionStrategy reads the converted-currency box, where the page
// renders `<p>¥</p><p>1,199</p>` as separate siblings. When the symbol and
// number arrive merged into one text run instead, the joined-text fallback
// catches them.
type convertedSectionStrategy struct {
	testID string
}

func (convertedSectionStrategy) Name() string { return "converted-section" }

func (s convertedSectionStrategy) Extract(doc *dom.Document) *Candidate {
	box := doc.Find(func(n *dom.Node) bool {
		return !n.IsText() && n.Attr("data-testid") == s.testID
	})
	if box == nil {
		return nil
	}

	ps := box.Elements("p")
	for i, p := range ps {
		if strings.TrimSpace(p.TextContent()) != currencySymbol {
			continue
		}
		if i+1 < len(ps) {
			if t := strings.TrimSpace(ps[i+1].TextContent()); isNumericToken(t) {
				return &Candidate{RawText: currencySymbol + " " + t, NumericText: t}
			}
		}
		break
	}

	texts := make([]string, 0, len(ps))
	for _, p := range ps {
		texts = append(texts, strings.TrimSpace(p.TextContent()))
	}
	if m := joinedPriceRe.FindStringSubmatch(strings.Join(texts, " ")); m != nil {
		return &Candidate{RawText: currencySymbol + " " + m[1], NumericText: m[1]}
	}
	return nil
}

// styledClassStrategy matches caption elements by their compiled class
// signature. Brittle by construction — it only exists as a fallback for
// pages where the structured section is missing.
type styledClassStrategy struct {
	classes []string
}

func (styledClassStrategy) Name() string { return "styled-class" }

func (s styledClassStrategy) Extract(doc *dom.Document) *Candidate {
	nodes := doc.FindAll(func(n *dom.Node) bool {
		return !n.IsText() && n.Tag == "p" && n.HasClasses(s.classes...)
	})

	var good []*dom.Node
	for _, n := range nodes {
		if !isNumericToken(strings.TrimSpace(n.TextContent())) {
			continue
		}
		if !IsVisible(n.Style) {
			continue
		}
		good = append(good, n)
	}
	if len(good) == 0 {
		return nil
	}

	target := good[0]
	for _, n := range good {
		if NearCurrencyMarker(n, proximityHops) {
			target = n
			break
		}
	}
	t := strings.TrimSpace(target.TextContent())
	return &Candidate{RawText: currencySymbol + " " + t, NumericText: t}
}

// proximityStrategy is the least precise, most robust fallback: the first
// visible numeric text node with a currency marker within reach wins.
type proximityStrategy struct{}

func (proximityStrategy) Name() string { return "proximity" }

func (proximityStrategy) Extract(doc *dom.Document) *Candidate {
	var hit string
	doc.Walk(func(n *dom.Node) bool {
		if !n.IsText() {
			return true
		}
		t := strings.TrimSpace(n.Text)
		if t == "" || !isNumericToken(t) {
			return true
		}
		par := n.Parent()
		if par == nil || !IsVisible(par.Style) {
			return true
		}
		if NearCurrencyMarker(par, proximityHops) {
			hit = t
			return false
		}
		return true
	})
	if hit == "" {
		return nil
	}
	return &Candidate{RawText: currencySymbol + " " + hit, NumericText: hit}
}

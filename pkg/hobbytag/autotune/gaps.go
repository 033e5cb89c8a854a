package autotune

import (
	"context"
	"errors"
	"sort"

	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
)

// Gap types
const (
	GapOrphan = "orphan" // token respondents use that no area rule lists
	GapUnused = "unused" // rule keyword no respondent used
)

// Gap is one rule-table suggestion
type Gap struct {
	Type       string  `json:"type"`
	Keyword    string  `json:"keyword"`
	Area       string  `json:"area,omitempty"` // suggested area for orphans, owning area for unused
	Support    int     `json:"support"`        // respondents using the token
	OtherRows  int     `json:"other_rows"`     // of those, respondents that fell back to the default area
	Confidence float64 `json:"confidence"`
}

// Report is the hobby_rule_gaps.json document
type Report struct {
	Rows    int   `json:"rows"`
	Orphans []Gap `json:"orphans"`
	Unused  []Gap `json:"unused"`
}

// scanLimit caps tokens read per answer, above the tagging default
const scanLimit = 64

// Thresholds control sensitivity
type Thresholds struct {
	MinSupport int // minimum respondents for an orphan, default 2
}

// Reviewer optionally approves suggestions (human or scripted)
type Reviewer interface {
	Approve(ctx context.Context, gap Gap) (bool, error)
}

// GapFinder compares what respondents write with the area rule table.
// Tokenizer must be an open-vocabulary tokenizer sharing the rule tables'
// stopwords and corrections.
type GapFinder struct {
	Normalizer *ingest.Normalizer
	Tokenizer  *ingest.Tokenizer
	Rules      *ingest.AreaRules
	Thresholds Thresholds
	Reviewer   Reviewer // optional
}

// Find scans raw hobby answers and returns orphan and unused keywords,
// most supported first.
func (g *GapFinder) Find(ctx context.Context, answers []string) (Report, error) {
	report := Report{Orphans: []Gap{}, Unused: []Gap{}}
	if g.Normalizer == nil || g.Tokenizer == nil || g.Rules == nil {
		return report, errors.New("gap finder: invalid configuration")
	}
	if g.Tokenizer.Variant() != ingest.VariantOpenVocabulary {
		return report, errors.New("gap finder: tokenizer must be open-vocabulary")
	}
	minSupport := g.Thresholds.MinSupport
	if minSupport <= 0 {
		minSupport = 2
	}

	support := make(map[string]int)
	otherRows := make(map[string]int)
	coAreas := make(map[string]map[string]int)
	used := make(map[string]bool)

	for _, answer := range answers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Rows++

		tokens := g.Tokenizer.Extract(g.Normalizer.Normalize(answer), scanLimit)
		var known []string
		for _, tok := range tokens {
			if g.Rules.Has(tok) {
				known = append(known, tok)
				used[tok] = true
			}
		}
		areas := g.Rules.Classify(known)
		fellBack := len(areas) == 1 && areas[0] == g.Rules.Fallback()

		for _, tok := range tokens {
			if g.Rules.Has(tok) {
				continue
			}
			support[tok]++
			if fellBack {
				otherRows[tok]++
				continue
			}
			if coAreas[tok] == nil {
				coAreas[tok] = make(map[string]int)
			}
			for _, a := range areas {
				coAreas[tok][a]++
			}
		}
	}

	for tok, n := range support {
		if n < minSupport {
			continue
		}
		gap := Gap{Type: GapOrphan, Keyword: tok, Support: n, OtherRows: otherRows[tok]}
		gap.Area, gap.Confidence = bestArea(coAreas[tok], n)
		report.Orphans = append(report.Orphans, gap)
	}
	for _, rule := range g.Rules.Rules() {
		for _, kw := range rule.Keywords {
			if !used[kw] {
				report.Unused = append(report.Unused, Gap{Type: GapUnused, Keyword: kw, Area: rule.Area})
			}
		}
	}

	sort.Slice(report.Orphans, func(i, j int) bool {
		a, b := report.Orphans[i], report.Orphans[j]
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		return a.Keyword < b.Keyword
	})

	if g.Reviewer == nil {
		return report, nil
	}
	approved := report.Orphans[:0]
	for _, gap := range report.Orphans {
		ok, err := g.Reviewer.Approve(ctx, gap)
		if err != nil {
			return report, err
		}
		if ok {
			approved = append(approved, gap)
		}
	}
	report.Orphans = approved
	return report, nil
}

// bestArea picks the area most often co-assigned with a token. Confidence is
// the share of the token's respondents in that area.
func bestArea(counts map[string]int, support int) (string, float64) {
	best, bestN := "", 0
	for area, n := range counts {
		if n > bestN || (n == bestN && area < best) {
			best, bestN = area, n
		}
	}
	if bestN == 0 {
		return "", 0
	}
	return best, float64(bestN) / float64(support)
}

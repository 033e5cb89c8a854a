package ingest

import (
	"sort"
	"strings"
)

// DefaultArea is assigned when no rule matches
const DefaultArea = "other"

// AreaRule maps a hobby area to the keywords that place a respondent in it
type AreaRule struct {
	Area     string   `yaml:"area" json:"area" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"min=1"`
}

// AreaRules is the ordered hobby-area rule table. Every matching rule
// applies, so one respondent can land in several areas.
type AreaRules struct {
	rules    []AreaRule
	sets     []map[string]struct{}
	fallback string
}

// NewAreaRules creates a rule table in the given order
func NewAreaRules(rules []AreaRule) *AreaRules {
	a := &AreaRules{fallback: DefaultArea}
	for _, r := range rules {
		a.Add(r.Area, r.Keywords)
	}
	return a
}

// SetFallback changes the area used when nothing matches. Empty is ignored.
func (a *AreaRules) SetFallback(area string) {
	if area != "" {
		a.fallback = area
	}
}

// Fallback returns the area used when nothing matches
func (a *AreaRules) Fallback() string {
	return a.fallback
}

// Add appends an area with its keywords. Adding an existing area extends it.
func (a *AreaRules) Add(area string, keywords []string) {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}

	for i, r := range a.rules {
		if r.Area == area {
			for _, kw := range normalized {
				if _, ok := a.sets[i][kw]; !ok {
					a.sets[i][kw] = struct{}{}
					a.rules[i].Keywords = append(a.rules[i].Keywords, kw)
				}
			}
			return
		}
	}

	set := make(map[string]struct{}, len(normalized))
	kept := normalized[:0]
	for _, kw := range normalized {
		if _, ok := set[kw]; ok {
			continue
		}
		set[kw] = struct{}{}
		kept = append(kept, kw)
	}
	a.rules = append(a.rules, AreaRule{Area: area, Keywords: kept})
	a.sets = append(a.sets, set)
}

// Classify returns every area whose keywords intersect the given keywords,
// in rule order. The result is never empty.
func (a *AreaRules) Classify(keywords []string) []string {
	tokenSet := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		tokenSet[strings.ToLower(kw)] = struct{}{}
	}

	var areas []string
	for i, r := range a.rules {
		for kw := range tokenSet {
			if _, ok := a.sets[i][kw]; ok {
				areas = append(areas, r.Area)
				break
			}
		}
	}

	if len(areas) == 0 {
		return []string{a.fallback}
	}
	return areas
}

// Keywords returns the union of all rule keywords, sorted. The allow-list
// variant of the tokenizer uses it as its vocabulary.
func (a *AreaRules) Keywords() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range a.sets {
		for kw := range set {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether any rule references the keyword
func (a *AreaRules) Has(keyword string) bool {
	for _, set := range a.sets {
		if _, ok := set[keyword]; ok {
			return true
		}
	}
	return false
}

// Rules returns a copy of the rule table in evaluation order
func (a *AreaRules) Rules() []AreaRule {
	out := make([]AreaRule, len(a.rules))
	for i, r := range a.rules {
		out[i] = AreaRule{Area: r.Area, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Len returns the number of areas
func (a *AreaRules) Len() int {
	return len(a.rules)
}

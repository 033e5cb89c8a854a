package ingest

import "sort"

// Tagged is the outcome of tagging one free-text hobby answer.
type Tagged struct {
	// Normalized is the text the keywords were drawn from
	Normalized string
	// Keywords are the hobby tags. Extraction order for the rule-based
	// tagger, sorted for the canon dictionary tagger.
	Keywords []string
	// Areas is the hobby area set. Only the rule-based tagger fills it.
	Areas []string
	// Unknown lists plausible candidates the dictionary could not resolve
	Unknown []string
	// About is the tidied display form of the answer (canon dictionary only)
	About string
}

// HobbyTagger turns one raw answer into hobby tags. RuleBased and
// CanonDictionary are the two strategies; their outputs feed structurally
// different artifacts and are never mixed.
type HobbyTagger interface {
	Variant() Variant
	Tag(raw string) Tagged
}

// Resolver maps a candidate phrase to its canonical hobby term
type Resolver interface {
	Lookup(phrase string) (string, bool)
}

// RuleBased tags answers with the area-rule pipeline:
// normalize → extract (allow-list) → classify
type RuleBased struct {
	normalizer *Normalizer
	tokenizer  *Tokenizer
	rules      *AreaRules
	max        int
}

// NewRuleBased wires the rule pipeline. The tokenizer is switched to the
// allow-list variant over the rule keyword universe.
func NewRuleBased(normalizer *Normalizer, tokenizer *Tokenizer, rules *AreaRules, maxKeywords int) *RuleBased {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	tokenizer.SetAllowList(rules.Keywords())
	return &RuleBased{
		normalizer: normalizer,
		tokenizer:  tokenizer,
		rules:      rules,
		max:        maxKeywords,
	}
}

// Variant reports the active extraction strategy
func (r *RuleBased) Variant() Variant {
	return r.tokenizer.Variant()
}

// Tag runs one answer through the rule pipeline. Areas is never empty.
func (r *RuleBased) Tag(raw string) Tagged {
	normalized := r.normalizer.Normalize(raw)
	keywords := r.tokenizer.Extract(normalized, r.max)
	return Tagged{
		Normalized: normalized,
		Keywords:   keywords,
		Areas:      r.rules.Classify(keywords),
	}
}

// Rules exposes the area rule table in use
func (r *RuleBased) Rules() *AreaRules {
	return r.rules
}

// CanonDictionary tags answers by resolving candidate phrases against a
// canonical hobby dictionary.
type CanonDictionary struct {
	extractor      *CandidateExtractor
	resolver       Resolver
	includeUnknown bool
}

// NewCanonDictionary wires the dictionary pipeline. With includeUnknown set,
// plausible unresolved candidates are folded into the tags as well as being
// reported.
func NewCanonDictionary(extractor *CandidateExtractor, resolver Resolver, includeUnknown bool) *CanonDictionary {
	return &CanonDictionary{
		extractor:      extractor,
		resolver:       resolver,
		includeUnknown: includeUnknown,
	}
}

// Variant reports the active extraction strategy
func (c *CanonDictionary) Variant() Variant {
	return VariantOpenVocabulary
}

// IncludeUnknown reports whether unresolved candidates become tags
func (c *CanonDictionary) IncludeUnknown() bool {
	return c.includeUnknown
}

// Tag resolves the candidates of one answer. Tags are unique and sorted.
func (c *CanonDictionary) Tag(raw string) Tagged {
	about := CleanAbout(raw)
	out := Tagged{
		About:      about,
		Normalized: c.extractor.normalizer.Normalize(about),
	}

	tags := make(map[string]struct{})
	for _, candidate := range c.extractor.Extract(about) {
		if canonical, ok := c.resolver.Lookup(candidate); ok {
			tags[canonical] = struct{}{}
			continue
		}
		if !c.extractor.IsReasonableUnknown(candidate) {
			continue
		}
		out.Unknown = append(out.Unknown, candidate)
		if c.includeUnknown {
			tags[candidate] = struct{}{}
		}
	}

	out.Keywords = make([]string, 0, len(tags))
	for tag := range tags {
		out.Keywords = append(out.Keywords, tag)
	}
	sort.Strings(out.Keywords)
	return out
}

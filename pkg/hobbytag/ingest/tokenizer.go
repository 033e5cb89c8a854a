package ingest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/hobbytag/pkg/hobbytag/stoplist"
)

// DefaultMaxKeywords caps how many keywords one answer contributes
const DefaultMaxKeywords = 12

// Variant names the keyword-extraction strategy in use.
type Variant string

const (
	// VariantAllowList keeps only tokens referenced by an area rule.
	VariantAllowList Variant = "allow-list"
	// VariantOpenVocabulary keeps any token that survives filtering.
	VariantOpenVocabulary Variant = "open-vocabulary"
)

// Conflict drops General from a keyword set whenever Specific is present.
type Conflict struct {
	Specific string `yaml:"specific" json:"specific"`
	General  string `yaml:"general" json:"general"`
}

// Tokenizer turns normalized text into an ordered, deduplicated keyword list
type Tokenizer struct {
	stops       *stoplist.Manager
	parser      *MultiTokenParser
	corrections map[string]string
	keepShort   map[string]struct{}
	allow       map[string]struct{} // nil means open vocabulary
	conflicts   []Conflict
}

// NewTokenizer creates a tokenizer. A nil parser or stoplist is treated as empty.
func NewTokenizer(stops *stoplist.Manager, parser *MultiTokenParser, corrections map[string]string) *Tokenizer {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	if parser == nil {
		parser = NewMultiTokenParser(nil)
	}
	t := &Tokenizer{
		stops:       stops,
		parser:      parser,
		corrections: make(map[string]string, len(corrections)),
		keepShort:   map[string]struct{}{"3d": {}},
	}
	for from, to := range corrections {
		t.corrections[strings.ToLower(from)] = strings.ToLower(to)
	}
	return t
}

// SetAllowList switches the tokenizer to the allow-list variant. Passing nil
// switches back to open vocabulary.
func (t *Tokenizer) SetAllowList(words []string) {
	if words == nil {
		t.allow = nil
		return
	}
	t.allow = make(map[string]struct{}, len(words))
	for _, w := range words {
		t.allow[strings.ToLower(w)] = struct{}{}
	}
}

// SetKeepShort replaces the set of tokens exempt from the minimum length rule.
func (t *Tokenizer) SetKeepShort(words []string) {
	t.keepShort = make(map[string]struct{}, len(words))
	for _, w := range words {
		t.keepShort[strings.ToLower(w)] = struct{}{}
	}
}

// AddConflict registers a specific-over-general rule
func (t *Tokenizer) AddConflict(c Conflict) {
	t.conflicts = append(t.conflicts, c)
}

// Variant reports which extraction strategy is active
func (t *Tokenizer) Variant() Variant {
	if t.allow != nil {
		return VariantAllowList
	}
	return VariantOpenVocabulary
}

// Correct applies the token correction table
func (t *Tokenizer) Correct(token string) string {
	if fixed, ok := t.corrections[token]; ok {
		return fixed
	}
	return token
}

// Extract splits normalized text into at most max canonical keywords.
// A max of zero or less uses DefaultMaxKeywords.
func (t *Tokenizer) Extract(normalized string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}
	words := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, max)

	for i := 0; i < len(words) && len(out) < max; {
		w := words[i]
		if canonical, n, ok := t.parser.Match(words, i); ok {
			w = canonical
			i += n
		} else {
			i++
		}

		w = t.Correct(w)
		if !t.keep(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	return t.resolveConflicts(out, seen)
}

// keep applies stopword, noise, length, numeric and allow-list filtering.
func (t *Tokenizer) keep(w string) bool {
	if w == "" || t.stops.Filtered(w) {
		return false
	}
	if utf8.RuneCountInString(w) <= 2 {
		if _, ok := t.keepShort[w]; !ok {
			return false
		}
	}
	if isNumericOnly(w) {
		return false
	}
	if t.allow != nil {
		if _, ok := t.allow[w]; !ok {
			return false
		}
	}
	return true
}

func (t *Tokenizer) resolveConflicts(tokens []string, seen map[string]struct{}) []string {
	for _, c := range t.conflicts {
		if _, ok := seen[c.Specific]; !ok {
			continue
		}
		if _, ok := seen[c.General]; !ok {
			continue
		}
		filtered := tokens[:0]
		for _, tok := range tokens {
			if tok != c.General {
				filtered = append(filtered, tok)
			}
		}
		tokens = filtered
		delete(seen, c.General)
	}
	return tokens
}

// isNumericOnly returns true if the token contains only ASCII digits.
func isNumericOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// AllowList returns the allow-list in sorted order, or nil in the open
// vocabulary variant.
func (t *Tokenizer) AllowList() []string {
	if t.allow == nil {
		return nil
	}
	out := make([]string, 0, len(t.allow))
	for w := range t.allow {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

package ingest

import (
	"sort"
	"strings"
)

// PhraseEntry maps a multi-word phrase to the single canonical token it
// collapses to.
type PhraseEntry struct {
	Phrase    string `yaml:"phrase" json:"phrase" validate:"required"`
	Canonical string `yaml:"canonical" json:"canonical" validate:"required"`
}

type phraseRule struct {
	tokens    []string
	canonical string
}

// MultiTokenParser handles recognition of multi-word phrases
type MultiTokenParser struct {
	rules []phraseRule // longest phrase first
	dict  map[string]string
}

// NewMultiTokenParser creates a new parser with the given phrase table.
// Single-word entries are ignored; token corrections cover those.
func NewMultiTokenParser(entries []PhraseEntry) *MultiTokenParser {
	p := &MultiTokenParser{dict: make(map[string]string)}
	for _, e := range entries {
		tokens := strings.Fields(strings.ToLower(e.Phrase))
		if len(tokens) < 2 || e.Canonical == "" {
			continue
		}
		key := strings.Join(tokens, " ")
		if _, dup := p.dict[key]; !dup {
			p.rules = append(p.rules, phraseRule{tokens: tokens})
		}
		p.dict[key] = e.Canonical
	}
	for i := range p.rules {
		p.rules[i].canonical = p.dict[strings.Join(p.rules[i].tokens, " ")]
	}
	sort.SliceStable(p.rules, func(i, j int) bool {
		return len(p.rules[i].tokens) > len(p.rules[j].tokens)
	})
	return p
}

// Match tries the longest known phrase starting at tokens[i].
// It returns the canonical token and the number of tokens consumed.
func (p *MultiTokenParser) Match(tokens []string, i int) (string, int, bool) {
	for _, r := range p.rules {
		n := len(r.tokens)
		if i+n > len(tokens) {
			continue
		}
		matched := true
		for j := 0; j < n; j++ {
			if tokens[i+j] != r.tokens[j] {
				matched = false
				break
			}
		}
		if matched {
			return r.canonical, n, true
		}
	}
	return "", 0, false
}

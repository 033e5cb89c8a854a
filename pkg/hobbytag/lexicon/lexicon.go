package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// KeyFunc reduces a raw phrase to its lookup key. An empty key is not indexed.
type KeyFunc func(phrase string) string

// Lexicon is the canonical hobby dictionary: a mapping from canonical hobby
// term to the raw variants respondents use for it.
//
// Canonical terms are kept exactly as configured (they become output tags);
// lookups go through KeyFunc so "I like Board Games!" and "board games" can
// share a key.
type Lexicon struct {
	// canonical -> variants as configured, canonical first
	synonyms map[string][]string
	order    []string

	// key -> canonical. Later entries win on collision.
	reverseIndex map[string]string

	// stemmed key -> canonical, only when stem fallback is enabled
	stemIndex map[string]string

	keyFunc KeyFunc
}

// New creates an empty lexicon keyed by lowercase, whitespace-collapsed text.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
		keyFunc:      defaultKey,
	}
}

func defaultKey(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// SetKeyFunc replaces the key function and rebuilds the indexes.
func (l *Lexicon) SetKeyFunc(fn KeyFunc) {
	if fn == nil {
		fn = defaultKey
	}
	l.keyFunc = fn
	l.reindex()
}

// EnableStemFallback turns on a second, fuzzier index: every word of a key is
// accent-folded and Porter2-stemmed, so "paintings" finds "painting". Exact
// matches always win.
func (l *Lexicon) EnableStemFallback() {
	l.stemIndex = make(map[string]string)
	l.reindex()
}

// StemFallback reports whether the stemmed index is active
func (l *Lexicon) StemFallback() bool {
	return l.stemIndex != nil
}

func (l *Lexicon) reindex() {
	l.reverseIndex = make(map[string]string, len(l.reverseIndex))
	if l.stemIndex != nil {
		l.stemIndex = make(map[string]string, len(l.stemIndex))
	}
	for _, canonical := range l.order {
		l.index(canonical, l.synonyms[canonical])
	}
}

func (l *Lexicon) index(canonical string, variants []string) {
	for _, v := range variants {
		key := l.keyFunc(v)
		if key == "" {
			continue
		}
		l.reverseIndex[key] = canonical
		if l.stemIndex != nil {
			if stem := stemKey(key); stem != "" {
				l.stemIndex[stem] = canonical
			}
		}
	}
}

// AddSynonymGroup adds a canonical term with its variants. The canonical is
// always indexed as its own variant. Re-adding a canonical replaces its group.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	if canonical == "" {
		return
	}
	group := make([]string, 0, len(variants)+1)
	group = append(group, canonical)
	seen := map[string]bool{canonical: true}
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		group = append(group, v)
	}

	if _, exists := l.synonyms[canonical]; exists {
		l.synonyms[canonical] = group
		l.reindex()
		return
	}
	l.synonyms[canonical] = group
	l.order = append(l.order, canonical)
	l.index(canonical, group)
}

// Lookup resolves a phrase to its canonical term
func (l *Lexicon) Lookup(phrase string) (string, bool) {
	key := l.keyFunc(phrase)
	if key == "" {
		return "", false
	}
	if canonical, ok := l.reverseIndex[key]; ok {
		return canonical, true
	}
	if l.stemIndex != nil {
		if canonical, ok := l.stemIndex[stemKey(key)]; ok {
			return canonical, true
		}
	}
	return "", false
}

// Variants returns the configured variants of a term (canonical first).
// Unknown terms return a slice containing only the term.
func (l *Lexicon) Variants(term string) []string {
	if variants, ok := l.synonyms[term]; ok {
		return append([]string(nil), variants...)
	}
	if canonical, ok := l.Lookup(term); ok {
		return append([]string(nil), l.synonyms[canonical]...)
	}
	return []string{term}
}

// Canonicals returns canonical terms in insertion order
func (l *Lexicon) Canonicals() []string {
	return append([]string(nil), l.order...)
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	total := 0
	for _, variants := range l.synonyms {
		total += len(variants)
	}
	return LexiconStats{
		SynonymGroups: len(l.synonyms),
		TotalVariants: total,
		IndexedKeys:   len(l.reverseIndex),
		StemmedKeys:   len(l.stemIndex),
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	SynonymGroups int // Number of canonical terms
	TotalVariants int // Variants across all groups, canonicals included
	IndexedKeys   int // Distinct lookup keys
	StemmedKeys   int // Distinct stemmed keys (0 when fallback is off)
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stemKey(key string) string {
	folded, _, err := transform.String(accentFolder, key)
	if err != nil {
		folded = key
	}
	words := strings.Fields(folded)
	for i, w := range words {
		words[i] = english.Stem(w, false)
	}
	return strings.Join(words, " ")
}

// LoadFromJSON loads a canonical dictionary of the form
//
//	{"board games": ["boardgames", "board game"], "chess": ["ches"]}
//
// Object order is preserved, so later variants win on key collisions.
// A leading UTF-8 byte order mark is ignored. Non-array values are skipped.
func LoadFromJSON(path string, keyFunc KeyFunc) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data, keyFunc)
}

// ParseJSON is LoadFromJSON over bytes.
func ParseJSON(data []byte, keyFunc KeyFunc) (*Lexicon, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("canon dictionary: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("canon dictionary: expected object, got %v", tok)
	}

	lex := New()
	if keyFunc != nil {
		lex.keyFunc = keyFunc
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("canon dictionary: %w", err)
		}
		canonical, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("canon dictionary %q: %w", canonical, err)
		}
		var variants []any
		if err := json.Unmarshal(raw, &variants); err != nil {
			// not an array: the canonical still indexes itself
			variants = nil
		}
		strs := make([]string, 0, len(variants))
		for _, v := range variants {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		lex.AddSynonymGroup(canonical, strs)
	}
	return lex, nil
}

// LoadFromYAML loads synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: boardgame
//	    variants: [board games, board game, boardgames]
func LoadFromYAML(path string, keyFunc KeyFunc) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	if keyFunc != nil {
		lex.keyFunc = keyFunc
	}
	for _, entry := range config.Synonyms {
		lex.AddSynonymGroup(entry.Canonical, entry.Variants)
	}
	return lex, nil
}

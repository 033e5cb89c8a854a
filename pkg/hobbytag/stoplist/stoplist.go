package stoplist

import (
	"sort"
	"strings"
)

// Manager holds the word lists that filter survey text
type Manager struct {
	words map[string]Reason
}

// Reason explains why a word is filtered. A word may carry several reasons.
type Reason struct {
	Stop    bool // grammatical filler ("the", "my", "like")
	Noise   bool // content word with no hobby signal ("student", "time")
	Invalid bool // a whole answer meaning "no answer" ("none", "n a")
	Reject  bool // disqualifies an unknown candidate phrase ("married", "year")
}

func (r Reason) any() bool {
	return r.Stop || r.Noise || r.Invalid || r.Reject
}

// NewManager creates a new stoplist manager seeded with stopwords
func NewManager(initialStops []string) *Manager {
	m := &Manager{words: make(map[string]Reason, len(initialStops))}
	m.AddStops(initialStops...)
	return m
}

// AddStops marks words as stopwords
func (m *Manager) AddStops(words ...string) {
	m.mark(words, func(r *Reason) { r.Stop = true })
}

// AddNoise marks words as noise words
func (m *Manager) AddNoise(words ...string) {
	m.mark(words, func(r *Reason) { r.Noise = true })
}

// AddInvalid marks whole phrases as non-answers
func (m *Manager) AddInvalid(phrases ...string) {
	m.mark(phrases, func(r *Reason) { r.Invalid = true })
}

// AddReject marks words that disqualify an unknown candidate
func (m *Manager) AddReject(words ...string) {
	m.mark(words, func(r *Reason) { r.Reject = true })
}

func (m *Manager) mark(words []string, set func(*Reason)) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		r := m.words[w]
		set(&r)
		m.words[w] = r
	}
}

// Remove drops a word from every list
func (m *Manager) Remove(word string) {
	delete(m.words, strings.ToLower(word))
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	return m.words[token].Stop
}

// IsNoise checks if a token is a noise word
func (m *Manager) IsNoise(token string) bool {
	return m.words[token].Noise
}

// IsInvalid checks if a normalized phrase is a non-answer
func (m *Manager) IsInvalid(phrase string) bool {
	return m.words[phrase].Invalid
}

// IsReject checks if a word disqualifies an unknown candidate
func (m *Manager) IsReject(word string) bool {
	return m.words[word].Reject
}

// Filtered reports whether the token should be dropped by the keyword extractor.
func (m *Manager) Filtered(token string) bool {
	r := m.words[token]
	return r.Stop || r.Noise
}

// Reason returns the reasons recorded for a word
func (m *Manager) Reason(word string) (Reason, bool) {
	r, ok := m.words[strings.ToLower(word)]
	if !ok || !r.any() {
		return Reason{}, false
	}
	return r, true
}

// Stops returns all stopwords, sorted
func (m *Manager) Stops() []string {
	return m.collect(func(r Reason) bool { return r.Stop })
}

// Noise returns all noise words, sorted
func (m *Manager) Noise() []string {
	return m.collect(func(r Reason) bool { return r.Noise })
}

// All returns every word in any list, sorted
func (m *Manager) All() []string {
	return m.collect(Reason.any)
}

func (m *Manager) collect(keep func(Reason) bool) []string {
	result := make([]string, 0, len(m.words))
	for w, r := range m.words {
		if keep(r) {
			result = append(result, w)
		}
	}
	sort.Strings(result)
	return result
}

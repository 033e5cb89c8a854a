package analytics

import "sort"

// AreaCount is one row of the hobby-area frequency table
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// TermCount is one row of a term frequency table
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type tally struct {
	counts map[string]int
	order  []string // first-seen
}

func newTally() tally {
	return tally{counts: make(map[string]int)}
}

func (t *tally) add(term string) {
	if _, ok := t.counts[term]; !ok {
		t.order = append(t.order, term)
	}
	t.counts[term]++
}

// Accumulator folds per-respondent results into run aggregates. One
// accumulator belongs to one pipeline invocation; counts only grow.
type Accumulator struct {
	rows    int
	areas   tally
	hobbies tally
	unknown tally
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		areas:   newTally(),
		hobbies: newTally(),
		unknown: newTally(),
	}
}

// Process consumes one respondent. Each distinct term counts once per call.
func (a *Accumulator) Process(hobbies, areas, unknown []string) {
	a.rows++
	addUnique(&a.hobbies, hobbies)
	addUnique(&a.areas, areas)
	addUnique(&a.unknown, unknown)
}

func addUnique(t *tally, terms []string) {
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		t.add(term)
	}
}

// Rows returns how many respondents were processed
func (a *Accumulator) Rows() int {
	return a.rows
}

// AreaCounts returns area frequencies by descending count. Ties keep the
// order in which areas were first seen.
func (a *Accumulator) AreaCounts() []AreaCount {
	out := make([]AreaCount, len(a.areas.order))
	for i, area := range a.areas.order {
		out[i] = AreaCount{Area: area, Count: a.areas.counts[area]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// HobbyCounts returns hobby tag frequencies by descending count, then term
func (a *Accumulator) HobbyCounts() []TermCount {
	return ranked(a.hobbies)
}

// UnknownTerms returns the unresolved candidate registry by descending
// count, then term
func (a *Accumulator) UnknownTerms() []TermCount {
	return ranked(a.unknown)
}

// AreaCount returns the count of one area
func (a *Accumulator) AreaCount(area string) int {
	return a.areas.counts[area]
}

func ranked(t tally) []TermCount {
	out := make([]TermCount, 0, len(t.counts))
	for term, n := range t.counts {
		out = append(out, TermCount{Term: term, Count: n})
	}
	SortTermCounts(out)
	return out
}

// SortTermCounts orders by descending count, then ascending term
func SortTermCounts(counts []TermCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Term < counts[j].Term
	})
}

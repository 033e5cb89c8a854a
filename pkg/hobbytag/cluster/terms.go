package cluster

import (
	"sort"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
)

// DefaultTopTerms is how many terms a cluster summary lists
const DefaultTopTerms = 8

// TopTerms counts tags and returns the n most frequent. Ties keep the order
// in which terms first appeared.
func TopTerms(tags []string, n int) []analytics.TermCount {
	if n <= 0 {
		n = DefaultTopTerms
	}
	var out []analytics.TermCount
	index := make(map[string]int)
	for _, t := range tags {
		if i, ok := index[t]; ok {
			out[i].Count++
			continue
		}
		index[t] = len(out)
		out = append(out, analytics.TermCount{Term: t, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []analytics.TermCount{}
	}
	return out
}

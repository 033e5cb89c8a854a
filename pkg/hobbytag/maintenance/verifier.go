package maintenance

import (
	"context"
	"errors"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
)

// Drift is a record whose stored tags differ from a fresh tagging run.
type Drift struct {
	ID      int      `json:"id"`
	Alias   string   `json:"alias"`
	Field   string   `json:"field"`
	Stored  []string `json:"stored"`
	Current []string `json:"current"`
}

// Result summarizes a verification pass.
type Result struct {
	Processed   int                   `json:"processed"`
	Drifted     int                   `json:"drifted"`
	Drift       []Drift               `json:"drift"`
	AreaCounts  []analytics.AreaCount `json:"area_counts"`
	HobbyCounts []analytics.TermCount `json:"hobby_counts"`
}

// Verifier re-tags emitted records after a table change and reports which
// ones the current tables would tag differently.
type Verifier struct {
	Tagger ingest.HobbyTagger
}

// Verify replays records in order. Aggregates are recomputed from the fresh
// tags, so they show what a new run would write.
func (v *Verifier) Verify(ctx context.Context, records []assemble.Record) (Result, error) {
	res := Result{Drift: []Drift{}}
	if v.Tagger == nil {
		return res, errors.New("verifier: nil tagger")
	}
	checkAreas := v.Tagger.Variant() == ingest.VariantAllowList

	acc := analytics.NewAccumulator()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		text := rec.Raw
		if text == "" {
			text = rec.About
		}
		tagged := v.Tagger.Tag(text)
		acc.Process(tagged.Keywords, tagged.Areas, tagged.Unknown)

		drifted := false
		if !slicesEqual(rec.Hobbies, tagged.Keywords) {
			res.Drift = append(res.Drift, Drift{ID: rec.ID, Alias: rec.Alias, Field: "hobby", Stored: rec.Hobbies, Current: tagged.Keywords})
			drifted = true
		}
		if checkAreas && !slicesEqual(rec.Areas, tagged.Areas) {
			res.Drift = append(res.Drift, Drift{ID: rec.ID, Alias: rec.Alias, Field: "hobby_area", Stored: rec.Areas, Current: tagged.Areas})
			drifted = true
		}
		if drifted {
			res.Drifted++
		}
	}

	res.AreaCounts = acc.AreaCounts()
	res.HobbyCounts = acc.HobbyCounts()
	return res, nil
}

// AreaCountsMatch reports whether stored area counts equal the recomputed ones
func (r Result) AreaCountsMatch(stored []analytics.AreaCount) bool {
	if len(stored) != len(r.AreaCounts) {
		return false
	}
	for i := range stored {
		if stored[i] != r.AreaCounts[i] {
			return false
		}
	}
	return true
}

// slicesEqual treats nil and empty as equal
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package export

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
)

// Artifact file names
const (
	FinalRecordsFile = "IVIS23_final.json"
	AreaCountsFile   = "hobby_area_counts.json"
	AreaRulesFile    = "hobby_area_rules.json"
	HobbyCountsFile  = "hobby_counts.json"
	SkillSummaryFile = "skill_summary.json"
)

// FinalRecords renders a run's records in the final layout
func FinalRecords(res *assemble.Result) []assemble.FinalRecord {
	out := make([]assemble.FinalRecord, len(res.Records))
	for i, r := range res.Records {
		out[i] = r.Final()
	}
	return out
}

// WriteFinal writes the rule pipeline artifacts into outDir and returns the
// written paths in order.
func WriteFinal(res *assemble.Result, outDir string) ([]string, error) {
	if res.Schema != assemble.SchemaFinal {
		return nil, fmt.Errorf("write final artifacts: result has schema %s", res.Schema)
	}

	rules := res.Rules
	if rules == nil {
		rules = []ingest.AreaRule{}
	}
	files := []struct {
		name string
		v    any
	}{
		{FinalRecordsFile, FinalRecords(res)},
		{AreaCountsFile, nonNilAreas(res.AreaCounts)},
		{AreaRulesFile, rules},
		{HobbyCountsFile, nonNilTerms(res.HobbyCounts)},
		{SkillSummaryFile, res.Skills},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := WriteJSON(path, f.v); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// HobbyConfig records how the canon pipeline was configured
type HobbyConfig struct {
	CanonFile            string `json:"canonFile"`
	UnknownFile          string `json:"unknownFile"`
	IncludeUnknownAsTags bool   `json:"includeUnknownAsTags"`
}

// CanonEnvelope is the cleaned output document of the canon pipeline
type CanonEnvelope struct {
	InputFile    string                 `json:"inputFile"`
	TotalRecords int                    `json:"totalRecords"`
	HobbyConfig  HobbyConfig            `json:"hobbyConfig"`
	RatingFields []assemble.RatingField `json:"ratingFields"`
	Records      []assemble.CanonRecord `json:"records"`
}

// CanonPaths locates the canon pipeline inputs and outputs. Input, Canon and
// Unknown are recorded in the envelope as given.
type CanonPaths struct {
	Input   string
	Output  string
	Canon   string
	Unknown string
}

// NewCanonEnvelope builds the envelope for a canon run
func NewCanonEnvelope(res *assemble.Result, paths CanonPaths, includeUnknown bool) CanonEnvelope {
	env := CanonEnvelope{
		InputFile:    paths.Input,
		TotalRecords: len(res.Records),
		HobbyConfig: HobbyConfig{
			CanonFile:            paths.Canon,
			UnknownFile:          paths.Unknown,
			IncludeUnknownAsTags: includeUnknown,
		},
		RatingFields: res.RatingFields,
		Records:      make([]assemble.CanonRecord, len(res.Records)),
	}
	if env.RatingFields == nil {
		env.RatingFields = []assemble.RatingField{}
	}
	for i, r := range res.Records {
		env.Records[i] = r.Canon()
	}
	return env
}

// WriteCanon writes the envelope, the unknown report and the hobby counts
// (next to the envelope) and returns the written paths.
func WriteCanon(res *assemble.Result, paths CanonPaths, includeUnknown bool) ([]string, error) {
	if res.Schema != assemble.SchemaCanon {
		return nil, fmt.Errorf("write canon artifacts: result has schema %s", res.Schema)
	}

	files := []struct {
		path string
		v    any
	}{
		{paths.Output, NewCanonEnvelope(res, paths, includeUnknown)},
		{paths.Unknown, nonNilTerms(res.Unknown)},
		{filepath.Join(filepath.Dir(paths.Output), HobbyCountsFile), nonNilTerms(res.HobbyCounts)},
	}

	var written []string
	for _, f := range files {
		if err := WriteJSON(f.path, f.v); err != nil {
			return written, fmt.Errorf("write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}

// ReadFinalRecords loads an IVIS23_final.json document
func ReadFinalRecords(path string) ([]assemble.FinalRecord, error) {
	var records []assemble.FinalRecord
	if err := ReadJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func nonNilAreas(c []analytics.AreaCount) []analytics.AreaCount {
	if c == nil {
		return []analytics.AreaCount{}
	}
	return c
}

func nonNilTerms(c []analytics.TermCount) []analytics.TermCount {
	if c == nil {
		return []analytics.TermCount{}
	}
	return c
}

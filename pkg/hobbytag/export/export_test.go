package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/config"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

func TestWriteJSONFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, export.WriteJSON(path, map[string]any{"label": "Arts & Media"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"label\": \"Arts & Media\"\n}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestWriteJSONReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, export.WriteJSON(path, []int{1}))

	var got []int
	require.NoError(t, export.ReadJSON(path, &got))
	assert.Equal(t, []int{1}, got)
}

func runFinal(t *testing.T) *assemble.Result {
	t.Helper()
	tables, err := config.DefaultTables()
	require.NoError(t, err)
	comp, err := config.Build(tables)
	require.NoError(t, err)
	a, err := assemble.New(assemble.SchemaFinal, comp.RuleTagger(0))
	require.NoError(t, err)

	header := []string{survey.ColTimestamp, survey.ColAlias, survey.ColHobby}
	row := []string{"2023/08/29", "Nintendo65", "chess & hiking"}
	for _, c := range survey.IVISRatingColumns {
		header = append(header, c.Header)
		row = append(row, "4")
	}
	row[len(row)-1] = ""

	table, err := survey.NewTable([][]string{header, row})
	require.NoError(t, err)
	res, err := a.Run(context.Background(), table)
	require.NoError(t, err)
	return res
}

func TestWriteFinal(t *testing.T) {
	res := runFinal(t)
	dir := t.TempDir()

	written, err := export.WriteFinal(res, dir)
	require.NoError(t, err)
	require.Len(t, written, 5)
	for _, p := range written {
		assert.FileExists(t, p)
	}

	records, err := export.ReadFinalRecords(filepath.Join(dir, export.FinalRecordsFile))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "2023", records[0].TimeYear)
	assert.Equal(t, survey.IVISRatingKeys(), records[0].Ratings.Keys())

	raw, err := os.ReadFile(filepath.Join(dir, export.FinalRecordsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"code_repository": null`)
	// field order follows the record layout
	assert.Less(t, strings.Index(string(raw), `"hobby_raw"`), strings.Index(string(raw), `"hobby_area"`))

	var areas []analytics.AreaCount
	require.NoError(t, export.ReadJSON(filepath.Join(dir, export.AreaCountsFile), &areas))
	assert.NotEmpty(t, areas)

	var skills analytics.SkillSummary
	require.NoError(t, export.ReadJSON(filepath.Join(dir, export.SkillSummaryFile), &skills))
	assert.Equal(t, 1, skills.Respondents)
}

func TestWriteFinalRejectsCanonResult(t *testing.T) {
	_, err := export.WriteFinal(&assemble.Result{Schema: assemble.SchemaCanon}, t.TempDir())
	assert.Error(t, err)
	_, err = export.WriteCanon(&assemble.Result{Schema: assemble.SchemaFinal}, export.CanonPaths{}, false)
	assert.Error(t, err)
}

func TestWriteCanon(t *testing.T) {
	res := &assemble.Result{
		Schema: assemble.SchemaCanon,
		Records: []assemble.Record{
			{ID: 1, Alias: "Ghost", About: "Chess, pottery", Hobbies: []string{"Chess"}, Unknown: []string{"pottery"},
				Ratings: survey.Ratings{{Key: "programming", Value: 7.5, Valid: true}}},
			{ID: 2},
		},
		RatingFields: []assemble.RatingField{{Original: "How would you rate your programming skills?", Key: "programming"}},
		Unknown:      []analytics.TermCount{{Term: "pottery", Count: 1}},
		HobbyCounts:  []analytics.TermCount{{Term: "Chess", Count: 1}},
	}

	dir := t.TempDir()
	paths := export.CanonPaths{
		Input:   "data/IVIS23.csv",
		Output:  filepath.Join(dir, "out", "IVIS23_cleaned.json"),
		Canon:   "data/hobby_canon.json",
		Unknown: filepath.Join(dir, "unknown.json"),
	}
	written, err := export.WriteCanon(res, paths, true)
	require.NoError(t, err)
	assert.Equal(t, []string{paths.Output, paths.Unknown, filepath.Join(dir, "out", export.HobbyCountsFile)}, written)

	var env map[string]json.RawMessage
	require.NoError(t, export.ReadJSON(paths.Output, &env))
	assert.JSONEq(t, `"data/IVIS23.csv"`, string(env["inputFile"]))
	assert.JSONEq(t, `2`, string(env["totalRecords"]))
	assert.JSONEq(t, `{"canonFile":"data/hobby_canon.json","unknownFile":"`+paths.Unknown+`","includeUnknownAsTags":true}`,
		string(env["hobbyConfig"]))
	assert.JSONEq(t, `[
		{"id":1,"alias":"Ghost","about":"Chess, pottery","hobbies":["Chess"],"ratings":{"programming":7.5}},
		{"id":2,"alias":"","about":"","hobbies":[],"ratings":{}}
	]`, string(env["records"]))

	var unknown []analytics.TermCount
	require.NoError(t, export.ReadJSON(paths.Unknown, &unknown))
	assert.Equal(t, res.Unknown, unknown)
}

func TestWriteCanonEmptyReports(t *testing.T) {
	dir := t.TempDir()
	paths := export.CanonPaths{Output: filepath.Join(dir, "c.json"), Unknown: filepath.Join(dir, "u.json")}
	_, err := export.WriteCanon(&assemble.Result{Schema: assemble.SchemaCanon}, paths, false)
	require.NoError(t, err)

	data, err := os.ReadFile(paths.Unknown)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/hobbytag/pkg/hobbytag/autotune"
	"github.com/cognicore/hobbytag/pkg/hobbytag/cluster"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/store/sqlite"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

var defaultAnswers = []string{
	"I love playing video games and reading sci-fi novels",
	"hiking, climbing and photography",
	"chess and board games",
	"cooking, baking, hiking",
}

func writeSurvey(t *testing.T, dir string, answers ...string) string {
	t.Helper()
	if len(answers) == 0 {
		answers = defaultAnswers
	}
	header := []string{survey.ColTimestamp, survey.ColAlias, survey.ColHobby}
	for _, c := range survey.IVISRatingColumns {
		header = append(header, c.Header)
	}
	rows := [][]string{header}
	for i, a := range answers {
		row := []string{"2023/08/29", "alias" + string(rune('A'+i)), a}
		for range survey.IVISRatingColumns {
			row = append(row, "6")
		}
		rows = append(rows, row)
	}

	path := filepath.Join(dir, "IVIS23.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

// run executes a fresh command tree and returns stdout
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(append(args, "--log-level", "warn"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, nil, args...)
	if err != nil {
		t.Fatalf("hobbytag %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCommandsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeSurvey(t, dir)
	outDir := filepath.Join(dir, "data")
	dbPath := filepath.Join(dir, "runs.db")

	out := execute(t, "areas", input, outDir, "--sqlite", dbPath)
	if !strings.Contains(out, "records  4") {
		t.Errorf("summary missing record count:\n%s", out)
	}
	finalPath := filepath.Join(outDir, export.FinalRecordsFile)
	records, err := export.ReadFinalRecords(finalPath)
	if err != nil {
		t.Fatalf("read final records: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	out = execute(t, "verify", finalPath, "--strict")
	if !strings.Contains(out, "0 drifted") {
		t.Errorf("fresh records should not drift:\n%s", out)
	}

	clusterDir := filepath.Join(dir, "clusters")
	execute(t, "cluster", "--input", finalPath, "--out", clusterDir, "--k", "2")
	var simple []cluster.SimpleCluster
	if err := export.ReadJSON(filepath.Join(clusterDir, cluster.SimpleFile), &simple); err != nil {
		t.Fatalf("read simple clusters: %v", err)
	}
	members := 0
	for _, c := range simple {
		members += len(c.Members)
	}
	if members != 4 {
		t.Errorf("expected every respondent in a cluster, got %d", members)
	}

	gapsPath := filepath.Join(dir, "gaps.json")
	execute(t, "gaps", input, gapsPath)
	if _, err := os.Stat(gapsPath); err != nil {
		t.Errorf("gap report missing: %v", err)
	}
}

func TestStoredRuns(t *testing.T) {
	dir := t.TempDir()
	input := writeSurvey(t, dir)
	dbPath := filepath.Join(dir, "runs.db")

	execute(t, "areas", input, filepath.Join(dir, "out"), "--sqlite", dbPath)

	sink, err := sqlite.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	runs, err := sink.ListRuns(context.Background())
	sink.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns = %v, %v", runs, err)
	}
	id := runs[0].ID

	out := execute(t, "runs", "--sqlite", dbPath)
	if !strings.Contains(out, "1 stored runs") || !strings.Contains(out, id) {
		t.Errorf("runs output missing run %s:\n%s", id, out)
	}

	out = execute(t, "verify", "--sqlite", dbPath, "--run", id, "--strict")
	if !strings.Contains(out, "run "+id) || !strings.Contains(out, "4 records") || !strings.Contains(out, "0 drifted") {
		t.Errorf("stored run should replay without drift:\n%s", out)
	}

	if _, err := run(t, nil, "verify", "--sqlite", dbPath, "--run", "missing"); err == nil {
		t.Error("verify of an unknown run should fail")
	}
	if _, err := run(t, nil, "runs"); err == nil {
		t.Error("runs without --sqlite should fail")
	}
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	input := writeSurvey(t, dir)
	dbDir := filepath.Join(dir, "db")
	if err := os.Mkdir(dbDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dbDir, "runs.db")

	execute(t, "areas", input, filepath.Join(dir, "first"), "--sqlite", dbPath)
	if err := os.RemoveAll(dbDir); err != nil {
		t.Fatal(err)
	}

	// a later invocation without --sqlite must not export again
	execute(t, "areas", input, filepath.Join(dir, "second"))
	if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
		t.Errorf("second run reused the earlier --sqlite path: %v", err)
	}

	finalPath := filepath.Join(dir, "second", export.FinalRecordsFile)
	clusterDir := filepath.Join(dir, "clusters")
	execute(t, "cluster", "--input", finalPath, "--out", clusterDir, "--k", "1e300")
	var report cluster.Report
	if err := export.ReadJSON(filepath.Join(clusterDir, cluster.ReportFile), &report); err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(report.Clusters) == 0 || len(report.Clusters) > 4 {
		t.Errorf("clusters = %d, want between 1 and 4", len(report.Clusters))
	}
}

func TestGapsReview(t *testing.T) {
	dir := t.TempDir()
	input := writeSurvey(t, dir, "pottery and hiking", "pottery, chess", "knitting and chess", "knitting")
	gapsPath := filepath.Join(dir, "gaps.json")

	// orphans are asked most supported first, ties by keyword: knitting, pottery
	if _, err := run(t, strings.NewReader("y\nn\n"), "gaps", input, gapsPath, "--review"); err != nil {
		t.Fatalf("gaps --review: %v", err)
	}
	var report autotune.Report
	if err := export.ReadJSON(gapsPath, &report); err != nil {
		t.Fatalf("read gaps: %v", err)
	}
	if len(report.Orphans) != 1 || report.Orphans[0].Keyword != "knitting" {
		t.Errorf("Orphans = %+v, want only knitting", report.Orphans)
	}
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSurvey(t, dir)
	canon := filepath.Join(dir, "hobby_canon.json")
	if err := os.WriteFile(canon, []byte(`{"Hiking": ["hike", "hiking"], "Board games": ["board games"]}`), 0o644); err != nil {
		t.Fatalf("write canon: %v", err)
	}
	output := filepath.Join(dir, "IVIS23.cleaned.json")
	unknown := filepath.Join(dir, "unknown.json")

	execute(t, "clean", input, output, canon, unknown)

	var env struct {
		TotalRecords int `json:"totalRecords"`
		Records      []struct {
			Hobbies []string `json:"hobbies"`
		} `json:"records"`
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read cleaned output: %v", err)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode cleaned output: %v", err)
	}
	if env.TotalRecords != 4 {
		t.Errorf("expected 4 records, got %d", env.TotalRecords)
	}
	if _, err := os.Stat(unknown); err != nil {
		t.Errorf("unknown report missing: %v", err)
	}
}

func TestSchemaCommand(t *testing.T) {
	out := execute(t, "schema", "--variant", "canon")
	if !strings.Contains(out, `"totalRecords"`) {
		t.Errorf("canon schema should describe the envelope:\n%s", out)
	}
}

func TestArgOr(t *testing.T) {
	if got := argOr([]string{"a", ""}, 1, "def"); got != "def" {
		t.Errorf("empty arg should fall back, got %q", got)
	}
	if got := argOr([]string{"a"}, 0, "def"); got != "a" {
		t.Errorf("got %q", got)
	}
	if got := argOr(nil, 3, "def"); got != "def" {
		t.Errorf("got %q", got)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	if tables.Rules.MaxKeywords != 12 {
		t.Errorf("max keywords = %d", tables.Rules.MaxKeywords)
	}
	if len(tables.Rules.Areas) != 8 || tables.Rules.Areas[0].Area != "sports_outdoors" {
		t.Errorf("areas = %v", tables.Rules.Areas)
	}
	if len(tables.Rules.PhraseCorrections) != 10 || len(tables.Rules.Multiword) != 9 {
		t.Errorf("phrase tables: %d corrections, %d multiword",
			len(tables.Rules.PhraseCorrections), len(tables.Rules.Multiword))
	}
	if tables.Rules.TokenCorrections["travelling"] != "travel" {
		t.Error("token corrections not loaded")
	}
	// yaml 1.1 booleans must stay strings
	found := map[string]bool{}
	for _, w := range append(tables.Rules.Stopwords, tables.Canon.InvalidValues...) {
		found[w] = true
	}
	for _, w := range []string{"on", "no", "null", "n a", "-"} {
		if !found[w] {
			t.Errorf("expected %q in stopwords or invalid values", w)
		}
	}
	if err := defaultValidator.Validate(tables); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParseTablesOverlay(t *testing.T) {
	tables, err := ParseTables([]byte(`
rules:
  max_keywords: 5
  areas:
    - area: crafts
      keywords: [knitting, pottery]
  token_corrections:
    knit: knitting
`))
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if tables.Rules.MaxKeywords != 5 {
		t.Errorf("max keywords = %d", tables.Rules.MaxKeywords)
	}
	if len(tables.Rules.Areas) != 1 || tables.Rules.Areas[0].Area != "crafts" {
		t.Errorf("areas should be replaced: %v", tables.Rules.Areas)
	}
	if tables.Rules.TokenCorrections["knit"] != "knitting" || tables.Rules.TokenCorrections["ches"] != "chess" {
		t.Errorf("token corrections should merge: %v", tables.Rules.TokenCorrections)
	}
	if len(tables.Rules.Stopwords) == 0 {
		t.Error("unset sections keep defaults")
	}
}

func TestParseTablesInvalid(t *testing.T) {
	tests := map[string]string{
		"max too large": "rules:\n  max_keywords: 100\n",
		"empty areas":   "rules:\n  areas: []\n",
		"nameless area": "rules:\n  areas:\n    - keywords: [x]\n",
		"bad yaml":      "rules: [\n",
	}
	for name, doc := range tests {
		_, err := ParseTables([]byte(doc))
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: error should wrap ErrInvalidConfig: %v", name, err)
		}
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Normalizer == nil || comp.Parser == nil || comp.Areas == nil || comp.Extractor == nil {
		t.Fatal("missing components")
	}
	if comp.Lexicon != nil {
		t.Error("no canon path should mean no lexicon")
	}
	if got := comp.RuleTagger(0).Tag("chess").Areas; len(got) != 1 || got[0] != "games" {
		t.Errorf("areas = %v", got)
	}
}

func TestLoaderNonExistentFiles(t *testing.T) {
	if _, err := (&Loader{RulesPath: "/nonexistent/rules.yaml"}).Load(); err == nil {
		t.Error("Should error on nonexistent rules file")
	}
	if _, err := (&Loader{CanonPath: "/nonexistent/canon.json"}).Load(); err == nil {
		t.Error("Should error on nonexistent canon dictionary")
	}
}

func TestLoaderCanonDictionary(t *testing.T) {
	dir := t.TempDir()
	canon := filepath.Join(dir, "hobby_canon.json")
	if err := os.WriteFile(canon, []byte("\xef\xbb\xbf{\"Board games\": [\"I like board games\", \"boardgames\"]}"), 0o644); err != nil {
		t.Fatal(err)
	}

	comp, err := (&Loader{CanonPath: canon, StemFallback: true}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// variants are keyed through the candidate cleaner, so "I like" is dropped
	if got, ok := comp.Lexicon.Lookup("board games"); !ok || got != "Board games" {
		t.Errorf("Lookup = %q %v", got, ok)
	}
	if !comp.Lexicon.StemFallback() {
		t.Error("stem fallback should be enabled")
	}

	tagger, err := comp.CanonTagger(false)
	if err != nil {
		t.Fatal(err)
	}
	if got := tagger.Tag("boardgames, none").Keywords; len(got) != 1 || got[0] != "Board games" {
		t.Errorf("tags = %v", got)
	}
}

func TestRunOptionsValidate(t *testing.T) {
	valid := []RunOptions{
		{},
		{MaxKeywords: 12, K: 6, Provider: ProviderHash},
		{Provider: ProviderOpenAI, K: 2},
	}
	for _, o := range valid {
		if err := o.Validate(); err != nil {
			t.Errorf("%+v should be valid: %v", o, err)
		}
	}

	invalid := []RunOptions{
		{MaxKeywords: 65},
		{K: 1},
		{Provider: "bert"},
	}
	for _, o := range invalid {
		err := o.Validate()
		if err == nil || !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%+v should be invalid, got %v", o, err)
		}
	}
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "Yes"} {
		if !ParseFlag(v) {
			t.Errorf("ParseFlag(%q) should be true", v)
		}
	}
	for _, v := range []string{"", "0", "no", "on", " true"} {
		if ParseFlag(v) {
			t.Errorf("ParseFlag(%q) should be false", v)
		}
	}
}

package autotune

import (
	"context"
	"testing"

	"github.com/cognicore/hobbytag/pkg/hobbytag/config"
)

func finder(t *testing.T) *GapFinder {
	t.Helper()
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return &GapFinder{Normalizer: comp.Normalizer, Tokenizer: comp.NewTokenizer(), Rules: comp.Areas}
}

func TestFindOrphans(t *testing.T) {
	g := finder(t)
	report, err := g.Find(context.Background(), []string{
		"chess and origami",
		"origami, chess",
		"origami",
		"juggling",
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if report.Rows != 4 {
		t.Errorf("rows = %d", report.Rows)
	}
	if len(report.Orphans) != 1 {
		t.Fatalf("orphans = %+v", report.Orphans)
	}
	o := report.Orphans[0]
	if o.Keyword != "origami" || o.Support != 3 || o.OtherRows != 1 {
		t.Errorf("orphan = %+v", o)
	}
	if o.Area != "games" || o.Confidence < 0.66 || o.Confidence > 0.67 {
		t.Errorf("suggested area = %s (%.2f)", o.Area, o.Confidence)
	}

	for _, u := range report.Unused {
		if u.Keyword == "chess" {
			t.Error("chess was used and should not be reported unused")
		}
	}
	if len(report.Unused) == 0 {
		t.Error("expected unused rule keywords")
	}
}

type rejectAll struct{}

func (rejectAll) Approve(context.Context, Gap) (bool, error) { return false, nil }

func TestFindReviewer(t *testing.T) {
	g := finder(t)
	g.Reviewer = rejectAll{}
	report, err := g.Find(context.Background(), []string{"origami", "origami"})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Orphans) != 0 {
		t.Errorf("reviewer should drop all orphans: %+v", report.Orphans)
	}
}

func TestFindRejectsAllowListTokenizer(t *testing.T) {
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatal(err)
	}
	tok := comp.NewTokenizer()
	tok.SetAllowList(comp.Areas.Keywords())
	g := &GapFinder{Normalizer: comp.Normalizer, Tokenizer: tok, Rules: comp.Areas}
	if _, err := g.Find(context.Background(), nil); err == nil {
		t.Error("expected error for allow-list tokenizer")
	}
	if _, err := (&GapFinder{}).Find(context.Background(), nil); err == nil {
		t.Error("expected error for empty finder")
	}
}

package ingest

import "testing"

var testCorrections = []Correction{
	{Pattern: `3d\s+modelling`, Replacement: "3dmodeling"},
	{Pattern: `video\s+games?`, Replacement: "videogame"},
	{Pattern: `board\s+games?`, Replacement: "boardgame"},
	{Pattern: `working\s+out`, Replacement: "workout"},
	{Pattern: `television\s+series`, Replacement: "series"},
	{Pattern: `tv\s+series`, Replacement: "series"},
}

func mustNormalizer(t *testing.T, cfg NormalizerConfig) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(cfg)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

func TestRuleNormalizer(t *testing.T) {
	n := mustNormalizer(t, RuleNormalizerConfig(testCorrections))

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"I love Video Games!!", "i love videogame"},
		{"Climbing; hiking/running", "climbing hiking running"},
		{"Art & Design", "art and design"},
		{"🎮 gaming ☕ coffee", "gaming coffee"},
		{"3D modelling\nand working   out", "3dmodeling and workout"},
		{"watching TV-series", "watching series"},
		{"!!!", ""},
		{"Caf\u00e9 culture", "caf culture"},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuleNormalizerTVSeries(t *testing.T) {
	n := mustNormalizer(t, RuleNormalizerConfig(testCorrections))
	if got := n.Normalize("TV series and board games"); got != "series and boardgame" {
		t.Errorf("got %q", got)
	}
}

func TestRuleNormalizerChainedCorrections(t *testing.T) {
	n := mustNormalizer(t, RuleNormalizerConfig(testCorrections))
	for _, in := range []string{"tv tv series", "television tv series", "TV television series"} {
		if got := n.Normalize(in); got != "series" {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, "series")
		}
	}
}

func TestNormalizerIdempotent(t *testing.T) {
	rule := mustNormalizer(t, RuleNormalizerConfig(testCorrections))
	canon := mustNormalizer(t, CanonNormalizerConfig())

	inputs := []string{
		"I love playing video games and reading sci-fi novels",
		"Hiking; climbing | photography / cooking",
		"  Board  Games & chess,, , piano  ",
		"Språk, läsning och 🎸 gitarr",
		"none",
		"",
		"tv tv series",
		"television tv series",
	}
	for _, in := range inputs {
		for name, n := range map[string]*Normalizer{"rule": rule, "canon": canon} {
			once := n.Normalize(in)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("%s: Normalize not idempotent for %q: %q -> %q", name, in, once, twice)
			}
		}
	}
}

func TestCanonNormalizer(t *testing.T) {
	n := mustNormalizer(t, CanonNormalizerConfig())

	tests := []struct {
		in   string
		want string
	}{
		{"Hiking; Climbing | Photography", "hiking,climbing,photography"},
		{"Board games & chess", "board games & chess"},
		{" , reading ,, writing , ", "reading,writing"},
		{"Läsning/Språk", "läsning,språk"},
		{"sci-fi!", "sci fi"},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizerBadPattern(t *testing.T) {
	_, err := NewNormalizer(RuleNormalizerConfig([]Correction{{Pattern: "(", Replacement: "x"}}))
	if err == nil {
		t.Fatal("expected error for invalid correction pattern")
	}
}

func TestNormalizeForLookup(t *testing.T) {
	if got := NormalizeForLookup("  Board-Games!! 🎲 "); got != "board games" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeForLookup("N/A"); got != "n a" {
		t.Errorf("got %q", got)
	}
}

func TestCleanAbout(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"I like  hiking ;climbing|  chess", "I like hiking, climbing, chess"},
		{"Reading; writing ,,", "Reading, writing"},
		{"Hello there !", "Hello there!"},
	}
	for _, tt := range tests {
		if got := CleanAbout(tt.in); got != tt.want {
			t.Errorf("CleanAbout(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

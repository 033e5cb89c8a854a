package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emojiRanges   = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
	separatorRuns = regexp.MustCompile(`[;|/\\\n\r]+`)
	whitespace    = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Correction is one phrase-level rewrite applied after character cleanup.
// Pattern is a Go regular expression matched against lowercased text.
type Correction struct {
	Pattern     string `yaml:"pattern" json:"pattern" validate:"required"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// NormalizerConfig describes one normalization variant.
type NormalizerConfig struct {
	// Delimiter replaces runs of structural separators (; | / \ and newlines).
	Delimiter string
	// Alphabet is the body of the character class that survives cleanup;
	// everything else becomes a space.
	Alphabet string
	// ExpandAmpersand rewrites "&" as " and " before cleanup.
	ExpandAmpersand bool
	// Corrections run in order after cleanup.
	Corrections []Correction
}

// RuleNormalizerConfig is the ASCII, space-delimited variant feeding the
// area-rule pipeline.
func RuleNormalizerConfig(corrections []Correction) NormalizerConfig {
	return NormalizerConfig{
		Delimiter:       " ",
		Alphabet:        `a-z0-9\s`,
		ExpandAmpersand: true,
		Corrections:     corrections,
	}
}

// CanonNormalizerConfig is the Unicode, comma-delimited variant feeding the
// canonical dictionary pipeline. "&" is kept so the candidate splitter can
// split on it.
func CanonNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Delimiter: ",",
		Alphabet:  `\p{L}\p{N}\s,&`,
	}
}

type compiledCorrection struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer lowercases and cleans free text before tokenization
type Normalizer struct {
	delimiter       string
	expandAmpersand bool
	disallowed      *regexp.Regexp
	corrections     []compiledCorrection

	// delimiter cleanup, only when the delimiter is not whitespace
	aroundDelim *regexp.Regexp
	delimRuns   *regexp.Regexp
}

// NewNormalizer compiles a normalizer from its configuration
func NewNormalizer(cfg NormalizerConfig) (*Normalizer, error) {
	if cfg.Delimiter == "" {
		cfg.Delimiter = " "
	}
	if cfg.Alphabet == "" {
		cfg.Alphabet = `a-z0-9\s`
	}
	disallowed, err := regexp.Compile(`[^` + cfg.Alphabet + `]`)
	if err != nil {
		return nil, fmt.Errorf("normalizer alphabet: %w", err)
	}

	n := &Normalizer{
		delimiter:       cfg.Delimiter,
		expandAmpersand: cfg.ExpandAmpersand,
		disallowed:      disallowed,
	}
	for _, c := range cfg.Corrections {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("phrase correction %q: %w", c.Pattern, err)
		}
		n.corrections = append(n.corrections, compiledCorrection{re: re, replacement: c.Replacement})
	}

	if strings.TrimSpace(cfg.Delimiter) != "" {
		d := regexp.QuoteMeta(cfg.Delimiter)
		n.aroundDelim = regexp.MustCompile(`\s*` + d + `\s*`)
		n.delimRuns = regexp.MustCompile(`(?:` + d + `)+`)
	}
	return n, nil
}

// Normalize returns the cleaned form of raw. Empty input yields "".
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	t := strings.ToLower(raw)
	t = emojiRanges.ReplaceAllString(t, " ")
	t = separatorRuns.ReplaceAllLiteralString(t, n.delimiter)
	if n.expandAmpersand {
		t = strings.ReplaceAll(t, "&", " and ")
	}
	t = n.disallowed.ReplaceAllLiteralString(t, " ")
	t = n.correct(t)
	t = whitespace.ReplaceAllLiteralString(t, " ")

	if n.aroundDelim != nil {
		t = n.aroundDelim.ReplaceAllLiteralString(t, n.delimiter)
		t = n.delimRuns.ReplaceAllLiteralString(t, n.delimiter)
		t = strings.TrimPrefix(t, n.delimiter)
		t = strings.TrimSuffix(t, n.delimiter)
	}

	return strings.TrimSpace(t)
}

// correct applies the correction table until the text stops changing. A
// rewrite can expose a match for an earlier pattern ("tv tv series").
func (n *Normalizer) correct(t string) string {
	for pass := 0; pass <= len(n.corrections); pass++ {
		prev := t
		for _, c := range n.corrections {
			t = c.re.ReplaceAllString(t, c.replacement)
		}
		if t == prev {
			break
		}
	}
	return t
}

// NormalizeForLookup lowercases text and keeps only Unicode letters, digits
// and single spaces. It is the key space of the canonical dictionary.
func NormalizeForLookup(text string) string {
	t := strings.ToLower(text)
	t = emojiRanges.ReplaceAllString(t, " ")
	t = lookupDisallowed.ReplaceAllLiteralString(t, " ")
	t = whitespace.ReplaceAllLiteralString(t, " ")
	return strings.TrimSpace(t)
}

var lookupDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

var (
	aboutSeparators = regexp.MustCompile(`\s*[,;|]\s*`)
	aboutEmptyItems = regexp.MustCompile(`,\s*,+`)
	aboutPunctSpace = regexp.MustCompile(`\s+([.!?])`)
	aboutTrailing   = regexp.MustCompile(`[,\s]+$`)
)

// CleanAbout tidies a free-text answer for display: single spaces, list
// separators rendered as ", ", no space before sentence punctuation and no
// trailing separators. Case and wording are preserved.
func CleanAbout(text string) string {
	if text == "" {
		return ""
	}
	t := whitespace.ReplaceAllLiteralString(text, " ")
	t = aboutSeparators.ReplaceAllLiteralString(t, ", ")
	t = aboutEmptyItems.ReplaceAllLiteralString(t, ", ")
	t = aboutPunctSpace.ReplaceAllString(t, "$1")
	t = aboutTrailing.ReplaceAllLiteralString(t, "")
	return strings.TrimSpace(t)
}

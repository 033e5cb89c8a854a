package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/hobbytag/pkg/hobbytag/stoplist"
)

var (
	conjunctionSplit = regexp.MustCompile(`\b(?:and|&)\b`)
	alphanumeric     = regexp.MustCompile(`(?i)[a-z0-9]`)
	fillerPhrases    = regexp.MustCompile(`(?i)\b(as well as|such as|i am|i m)\b`)
)

// maxUnknownWords bounds how long an unresolved candidate may be
const maxUnknownWords = 4

// CandidateExtractor splits a free-text answer into short hobby phrases for
// lookup against the canonical dictionary.
type CandidateExtractor struct {
	normalizer   *Normalizer
	stops        *stoplist.Manager
	noisePhrases []*regexp.Regexp
}

// NewCandidateExtractor builds an extractor. The normalizer should use the
// comma-delimited canon configuration.
func NewCandidateExtractor(normalizer *Normalizer, stops *stoplist.Manager, noisePhrases []string) *CandidateExtractor {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	e := &CandidateExtractor{normalizer: normalizer, stops: stops}
	for _, phrase := range noisePhrases {
		words := strings.Fields(strings.ToLower(phrase))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		e.noisePhrases = append(e.noisePhrases, regexp.MustCompile(`\b`+strings.Join(words, `\s+`)+`\b`))
	}
	return e
}

// Extract returns the unique candidate phrases of an answer, in order of
// first appearance.
func (e *CandidateExtractor) Extract(about string) []string {
	normalized := e.normalizer.Normalize(about)
	if normalized == "" {
		return nil
	}

	var results []string
	seen := make(map[string]struct{})
	for _, chunk := range strings.Split(normalized, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		for _, part := range conjunctionSplit.Split(chunk, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			cleaned := e.CleanPhrase(part)
			if utf8.RuneCountInString(cleaned) <= 2 || e.IsInvalid(cleaned) {
				continue
			}
			if _, dup := seen[cleaned]; dup {
				continue
			}
			seen[cleaned] = struct{}{}
			results = append(results, cleaned)
		}
	}
	return results
}

// CleanPhrase reduces a phrase to its lookup key: normalized, noise phrases
// such as "i like" removed, stopwords dropped.
func (e *CandidateExtractor) CleanPhrase(text string) string {
	current := NormalizeForLookup(text)
	for _, re := range e.noisePhrases {
		current = re.ReplaceAllLiteralString(current, " ")
	}
	words := strings.Fields(current)
	kept := words[:0]
	for _, w := range words {
		if !e.stops.IsStop(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// IsInvalid reports whether a phrase is a non-answer like "none" or "n/a"
func (e *CandidateExtractor) IsInvalid(value string) bool {
	return e.stops.IsInvalid(NormalizeForLookup(value))
}

// IsReasonableUnknown decides whether an unresolved candidate is worth
// recording for review.
func (e *CandidateExtractor) IsReasonableUnknown(value string) bool {
	if utf8.RuneCountInString(value) <= 2 || e.IsInvalid(value) {
		return false
	}
	if !alphanumeric.MatchString(value) || fillerPhrases.MatchString(value) {
		return false
	}
	words := strings.Fields(value)
	if len(words) > maxUnknownWords {
		return false
	}
	for _, w := range words {
		if e.stops.IsReject(w) {
			return false
		}
	}
	return true
}

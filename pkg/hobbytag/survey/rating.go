package survey

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Scale selects how a rating cell is read. The two schemas keep their own
// scale; values are never converted between them.
type Scale int

const (
	// ScaleIVIS reads the leading number of a cell, keeps 1–10 inclusive and
	// rounds to one decimal.
	ScaleIVIS Scale = iota
	// ScaleRaw keeps a strictly numeric cell verbatim, without range check.
	ScaleRaw
)

// IVIS rating bounds
const (
	MinRating = 1.0
	MaxRating = 10.0
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	strictNumber = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// ParseRating reads one rating cell. ok is false when the cell is empty,
// malformed or out of range; the field is then absent.
func ParseRating(cell string, scale Scale) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}

	if scale == ScaleRaw {
		if !strictNumber.MatchString(s) {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	prefix := leadingFloat.FindString(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < MinRating || v > MaxRating {
		return 0, false
	}
	return RoundTenth(v), true
}

// RoundTenth rounds to one decimal, halves up
func RoundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// ClampPresentation bounds a value to the 0–5 range charts draw on. It is a
// display step and never runs during ingestion.
func ClampPresentation(v float64) float64 {
	return math.Max(0, math.Min(5, v))
}

var (
	ratingPrefix    = regexp.MustCompile(`^how would you rate your\s+`)
	skillsSuffix    = regexp.MustCompile(`\s*skills\??\s*$`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// RatingHeaderPrefix marks a rating column in a survey export
const RatingHeaderPrefix = "How would you rate your "

// SlugifyHeader derives a rating key from its question text.
// "How would you rate your Information Visualization skills?" ->
// "information_visualization".
func SlugifyHeader(header string) string {
	s := norm.NFKD.String(header)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = ratingPrefix.ReplaceAllLiteralString(s, "")
	s = skillsSuffix.ReplaceAllLiteralString(s, "")
	s = nonAlphanumeric.ReplaceAllLiteralString(s, "_")
	return strings.Trim(s, "_")
}

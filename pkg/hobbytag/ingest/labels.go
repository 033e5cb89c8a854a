package ingest

import (
	"strings"
	"unicode"
)

var areaLabels = map[string]string{
	"arts_media":        "Arts & Media",
	"tech_making":       "Tech & Making",
	"sports_outdoors":   "Sports & Outdoors",
	"reading_writing":   "Reading & Writing",
	"languages_culture": "Languages & Culture",
}

// FormatAreaLabel renders an area tag for display. Unlisted areas are
// title-cased with underscores as spaces.
func FormatAreaLabel(area string) string {
	key := strings.ToLower(strings.TrimSpace(area))
	if key == "" {
		return ""
	}
	if label, ok := areaLabels[key]; ok {
		return label
	}

	runes := []rune(strings.ReplaceAll(key, "_", " "))
	startOfWord := true
	for i, r := range runes {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if startOfWord && isWord {
			runes[i] = unicode.ToUpper(r)
		}
		startOfWord = !isWord
	}
	return string(runes)
}

// TagColor is the badge palette for one area
type TagColor struct {
	Background string `json:"bg"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

var fallbackColor = TagColor{Background: "#e5e7eb", Text: "#374151", Border: "#cbd5e1"}

var areaColors = map[string]TagColor{
	"arts_media":        {Background: "#ffe4ec", Text: "#7a2848", Border: "#f5b7c9"},
	"games":             {Background: "#dbeafe", Text: "#1e3a8a", Border: "#93c5fd"},
	"tech_making":       {Background: "#dcfce7", Text: "#14532d", Border: "#86efac"},
	"food":              {Background: "#fef3c7", Text: "#78350f", Border: "#fcd34d"},
	"sports_outdoors":   {Background: "#ffe4b5", Text: "#7c2d12", Border: "#fdba74"},
	"reading_writing":   {Background: "#f3e8ff", Text: "#581c87", Border: "#d8b4fe"},
	"languages_culture": {Background: "#cffafe", Text: "#155e75", Border: "#67e8f9"},
	"travel":            {Background: "#fde68a", Text: "#78350f", Border: "#fbbf24"},
	DefaultArea:         fallbackColor,
}

// AreaColor returns the badge palette for an area, grey for unknown areas
func AreaColor(area string) TagColor {
	if c, ok := areaColors[strings.ToLower(strings.TrimSpace(area))]; ok {
		return c
	}
	return fallbackColor
}

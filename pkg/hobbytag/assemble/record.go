package assemble

import (
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

// Schema names an output record layout. The layouts carry different fields
// and rating scales and are never merged.
type Schema string

const (
	// SchemaFinal is the IVIS23_final layout of the rule pipeline
	SchemaFinal Schema = "final"
	// SchemaCanon is the cleaned-envelope layout of the canon pipeline
	SchemaCanon Schema = "canon"
)

// Valid reports whether s names a known schema
func (s Schema) Valid() bool {
	return s == SchemaFinal || s == SchemaCanon
}

// Record is one respondent. It is created once per non-blank row and never
// changed afterwards.
type Record struct {
	ID       int
	Alias    string
	TimeYear string
	Raw      string // hobby answer as exported
	About    string // tidied answer (canon)
	Hobbies  []string
	Areas    []string // rule pipeline only
	Unknown  []string // canon pipeline only
	Ratings  survey.Ratings
}

// FinalRecord is the IVIS23_final.json element
type FinalRecord struct {
	ID        int            `json:"id" jsonschema:"minimum=1"`
	Alias     string         `json:"alias"`
	TimeYear  string         `json:"time_year"`
	HobbyRaw  string         `json:"hobby_raw"`
	Hobby     []string       `json:"hobby"`
	HobbyArea []string       `json:"hobby_area" jsonschema:"minItems=1"`
	Ratings   survey.Ratings `json:"ratings"`
}

// CanonRecord is one element of the cleaned envelope's records
type CanonRecord struct {
	ID      int            `json:"id" jsonschema:"minimum=1"`
	Alias   string         `json:"alias"`
	About   string         `json:"about"`
	Hobbies []string       `json:"hobbies"`
	Ratings survey.Ratings `json:"ratings"`
}

// Final renders the record in the final layout
func (r Record) Final() FinalRecord {
	return FinalRecord{
		ID:        r.ID,
		Alias:     r.Alias,
		TimeYear:  r.TimeYear,
		HobbyRaw:  r.Raw,
		Hobby:     nonNil(r.Hobbies),
		HobbyArea: nonNil(r.Areas),
		Ratings:   nonNilRatings(r.Ratings),
	}
}

// Canon renders the record in the canon layout
func (r Record) Canon() CanonRecord {
	return CanonRecord{
		ID:      r.ID,
		Alias:   r.Alias,
		About:   r.About,
		Hobbies: nonNil(r.Hobbies),
		Ratings: nonNilRatings(r.Ratings),
	}
}

// FromFinal rebuilds a record from its final layout
func FromFinal(f FinalRecord) Record {
	return Record{
		ID:       f.ID,
		Alias:    f.Alias,
		TimeYear: f.TimeYear,
		Raw:      f.HobbyRaw,
		Hobbies:  f.Hobby,
		Areas:    f.HobbyArea,
		Ratings:  f.Ratings,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRatings(r survey.Ratings) survey.Ratings {
	if r == nil {
		return survey.Ratings{}
	}
	return r
}

// RatingField maps a rating column to its output key
type RatingField struct {
	Original string `json:"original"`
	Key      string `json:"key"`
}

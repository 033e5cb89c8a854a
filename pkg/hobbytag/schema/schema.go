// Package schema describes the JSON output files as JSON Schema documents.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

var ratingsType = reflect.TypeOf(survey.Ratings{})

// For returns the schema of the main output file of a layout: the record
// array for final, the cleaned envelope for canon.
func For(variant assemble.Schema) (*jsonschema.Schema, error) {
	var (
		mapper func(reflect.Type) *jsonschema.Schema
		target any
		title  string
	)
	switch variant {
	case assemble.SchemaFinal:
		mapper = typeMapper(finalRatings())
		target = []assemble.FinalRecord{}
		title = export.FinalRecordsFile
	case assemble.SchemaCanon:
		mapper = typeMapper(canonRatings())
		target = export.CanonEnvelope{}
		title = "cleaned survey envelope"
	default:
		return nil, fmt.Errorf("%w: unknown schema %q", internalerr.ErrInvalidConfig, variant)
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapper,
	}
	s := reflector.Reflect(target)
	s.Title = title
	return s, nil
}

// JSON renders the schema for variant with two-space indentation
func JSON(variant assemble.Schema) ([]byte, error) {
	s, err := For(variant)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

func typeMapper(ratings *jsonschema.Schema) func(reflect.Type) *jsonschema.Schema {
	return func(t reflect.Type) *jsonschema.Schema {
		if t == ratingsType {
			return ratings
		}
		return nil
	}
}

// finalRatings keeps every IVIS key; absent values are null
func finalRatings() *jsonschema.Schema {
	keys := survey.IVISRatingKeys()
	props := jsonschema.NewProperties()
	for _, key := range keys {
		props.Set(key, &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{{Type: "number"}, {Type: "null"}},
		})
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             keys,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// canonRatings allows any discovered key; present values are on the 1–10 scale
func canonRatings() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type:    "number",
			Minimum: json.Number(fmt.Sprint(survey.MinRating)),
			Maximum: json.Number(fmt.Sprint(survey.MaxRating)),
		},
	}
}

package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

func decode(t *testing.T, variant assemble.Schema) map[string]any {
	t.Helper()
	data, err := JSON(variant)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestFinalSchemaHasEveryRatingKey(t *testing.T) {
	doc := decode(t, assemble.SchemaFinal)
	assert.Equal(t, "array", doc["type"])

	items := doc["items"].(map[string]any)
	props := items["properties"].(map[string]any)
	for _, field := range []string{"id", "alias", "time_year", "hobby_raw", "hobby", "hobby_area", "ratings"} {
		assert.Contains(t, props, field)
	}

	ratings := props["ratings"].(map[string]any)
	ratingProps := ratings["properties"].(map[string]any)
	required := ratings["required"].([]any)
	for _, key := range survey.IVISRatingKeys() {
		assert.Contains(t, ratingProps, key)
		assert.Contains(t, required, key)
	}
	assert.Equal(t, false, ratings["additionalProperties"])
}

func TestCanonSchemaEnvelope(t *testing.T) {
	doc := decode(t, assemble.SchemaCanon)
	assert.Equal(t, "object", doc["type"])

	props := doc["properties"].(map[string]any)
	for _, field := range []string{"inputFile", "totalRecords", "hobbyConfig", "ratingFields", "records"} {
		assert.Contains(t, props, field)
	}

	records := props["records"].(map[string]any)
	ratings := records["items"].(map[string]any)["properties"].(map[string]any)["ratings"].(map[string]any)
	extra := ratings["additionalProperties"].(map[string]any)
	assert.Equal(t, "number", extra["type"])
	assert.EqualValues(t, 1, extra["minimum"])
	assert.EqualValues(t, 10, extra["maximum"])
}

func TestUnknownVariant(t *testing.T) {
	_, err := For("legacy")
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

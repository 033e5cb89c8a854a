package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultHashDims is the vector size of the offline hash embedder
const DefaultHashDims = 256

// HashEmbedder is a deterministic offline embedder. Each word and each
// comma-separated phrase is hashed into a signed bucket, so texts sharing
// hobbies land close together without a model.
type HashEmbedder struct {
	Dims int
}

// NewHashEmbedder creates a hash embedder; dims <= 0 means DefaultHashDims
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDims
	}
	return &HashEmbedder{Dims: dims}
}

// Model implements Embedder
func (h *HashEmbedder) Model() string {
	return "fnv-hash"
}

// Embed implements Embedder. Vectors are unit length.
func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims := h.Dims
	if dims <= 0 {
		dims = DefaultHashDims
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, dims)
		lower := strings.ToLower(text)
		for _, phrase := range strings.Split(lower, ",") {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			h.add(vec, "p:"+phrase, 2)
			for _, w := range strings.FieldsFunc(phrase, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			}) {
				h.add(vec, "w:"+w, 1)
			}
		}
		out[i] = Normalize(vec)
	}
	return out, nil
}

func (h *HashEmbedder) add(vec []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	idx := int(sum % uint64(len(vec)))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// Embedder turns texts into vectors in one batched call
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

// Normalize scales v to unit length. A zero vector is returned unchanged.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Check verifies a provider returned one vector per text, all with the same
// dimension, and returns that dimension.
func Check(texts []string, vectors [][]float64) (int, error) {
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: got %d vectors for %d texts", internalerr.ErrEmbedding, len(vectors), len(texts))
	}
	if len(vectors) == 0 {
		return 0, nil
	}
	dims := len(vectors[0])
	if dims == 0 {
		return 0, fmt.Errorf("%w: empty vector", internalerr.ErrEmbedding)
	}
	for i, v := range vectors {
		if len(v) != dims {
			return 0, fmt.Errorf("%w: vector %d has %d dims, want %d", internalerr.ErrEmbedding, i, len(v), dims)
		}
	}
	return dims, nil
}

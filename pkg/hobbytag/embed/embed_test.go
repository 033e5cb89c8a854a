package embed

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0.6, 0.8}, Normalize([]float64{3, 4}))
	assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
}

func TestCheck(t *testing.T) {
	dims, err := Check([]string{"a", "b"}, [][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, dims)

	_, err = Check([]string{"a"}, nil)
	assert.True(t, errors.Is(err, internalerr.ErrEmbedding))
	_, err = Check([]string{"a", "b"}, [][]float64{{1, 0}, {1}})
	assert.True(t, errors.Is(err, internalerr.ErrEmbedding))
}

func TestHashEmbedderDeterministic(t *testing.T) {
	h := NewHashEmbedder(64)
	texts := []string{"chess, board games", "Chess, Board Games", "hiking, climbing"}

	a, err := h.Embed(context.Background(), texts)
	require.NoError(t, err)
	b, err := h.Embed(context.Background(), texts)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.Len(t, a, 3)
	assert.Len(t, a[0], 64)
	assert.InDelta(t, 1.0, math.Sqrt(dot(a[0], a[0])), 1e-9)
	assert.InDelta(t, 1.0, dot(a[0], a[1]), 1e-9, "case is ignored")
	assert.Greater(t, dot(a[0], a[1]), dot(a[0], a[2]))
}

func TestHashEmbedderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder(0).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bge-small", req.Model)

		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		resp := struct {
			Data []item `json:"data"`
		}{}
		for i := range req.Input {
			resp.Data = append(resp.Data, item{Index: i, Embedding: []float64{float64(i + 1), 0, 0}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e, err := New("http", Options{BaseURL: srv.URL, Model: "bge-small", HTTPClient: srv.Client()})
	require.NoError(t, err)
	assert.Equal(t, "bge-small", e.Model())

	vectors, err := e.Embed(context.Background(), []string{"chess", "hiking"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0}, {1, 0, 0}}, vectors, "vectors are normalized")
}

func TestHTTPEmbedderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(srv.URL, "", "m", srv.Client())
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrEmbedding))
	assert.Contains(t, err.Error(), "overloaded")
}

func TestNewProviders(t *testing.T) {
	e, err := New("", Options{})
	require.NoError(t, err)
	assert.Equal(t, "fnv-hash", e.Model())

	_, err = New("openai", Options{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig), "openai needs a key")

	o, err := New("openai", Options{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, o.Model())

	_, err = New("http", Options{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = New("bert", Options{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

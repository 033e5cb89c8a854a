package embed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cognicore/hobbytag/internal/llm"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// HTTPEmbedder posts to any OpenAI-compatible embeddings URL, such as a
// local model server.
type HTTPEmbedder struct {
	client *llm.Client
}

// NewHTTPEmbedder creates an embedder for the given endpoint
func NewHTTPEmbedder(url, apiKey, model string, httpClient *http.Client) (*HTTPEmbedder, error) {
	if url == "" || model == "" {
		return nil, fmt.Errorf("%w: http provider needs an endpoint URL and a model", internalerr.ErrInvalidConfig)
	}
	return &HTTPEmbedder{client: &llm.Client{
		BaseURL:    url,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: httpClient,
	}}, nil
}

// Model implements Embedder
func (h *HTTPEmbedder) Model() string {
	return h.client.Model
}

// Embed implements Embedder
func (h *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := h.client.Embeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrEmbedding, err)
	}
	if _, err := Check(texts, vectors); err != nil {
		return nil, err
	}
	for i, v := range vectors {
		vectors[i] = Normalize(v)
	}
	return vectors, nil
}

package embed

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = string(openai.EmbeddingModelTextEmbedding3Small)

// OpenAIEmbedder calls the OpenAI embeddings endpoint
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder. baseURL may be empty for the
// public API.
func NewOpenAIEmbedder(apiKey, baseURL, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for the openai provider", internalerr.ErrInvalidConfig)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIEmbedder{client: &client, model: model}, nil
}

// Model implements Embedder
func (o *OpenAIEmbedder) Model() string {
	return o.model
}

// Embed implements Embedder with one request for all texts
func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrEmbedding, err)
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", internalerr.ErrEmbedding, d.Index)
		}
		out[d.Index] = Normalize(d.Embedding)
	}
	if _, err := Check(texts, out); err != nil {
		return nil, err
	}
	return out, nil
}

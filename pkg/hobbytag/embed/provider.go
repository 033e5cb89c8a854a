package embed

import (
	"fmt"
	"net/http"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// Options configure a provider. Fields a provider does not use are ignored.
type Options struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dims       int
	HTTPClient *http.Client
}

// New returns the embedder for a provider name: "hash" (default), "openai"
// or "http".
func New(provider string, opts Options) (Embedder, error) {
	switch provider {
	case "", "hash":
		return NewHashEmbedder(opts.Dims), nil
	case "openai":
		return NewOpenAIEmbedder(opts.APIKey, opts.BaseURL, opts.Model)
	case "http":
		return NewHTTPEmbedder(opts.BaseURL, opts.APIKey, opts.Model, opts.HTTPClient)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", internalerr.ErrInvalidConfig, provider)
	}
}

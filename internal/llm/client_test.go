package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestEmbeddingsSuccess(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/embeddings",
		APIKey:  "secret",
		Model:   "embed-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.Header.Get("Authorization") != "Bearer secret" {
					t.Errorf("missing bearer token")
				}
				body, _ := io.ReadAll(req.Body)
				if !strings.Contains(string(body), `"input":["chess","hiking"]`) {
					t.Errorf("unexpected payload: %s", body)
				}
				return respond(200, `{"data":[
					{"index":1,"embedding":[0,1]},
					{"index":0,"embedding":[1,0]}
				]}`)
			}),
		},
	}

	out, err := client.Embeddings(context.Background(), []string{"chess", "hiking"})
	if err != nil {
		t.Fatalf("Embeddings: %v", err)
	}
	if len(out) != 2 || out[0][0] != 1 || out[1][1] != 1 {
		t.Fatalf("embeddings should follow input order: %v", out)
	}
}

func TestEmbeddingsError(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/embeddings",
		Model:   "embed-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return respond(400, `{"error":{"message":"bad model"}}`)
			}),
		},
	}

	_, err := client.Embeddings(context.Background(), []string{"x"})
	if err == nil || !strings.Contains(err.Error(), "bad model") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestEmbeddingsCountMismatch(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/embeddings",
		Model:   "embed-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return respond(200, `{"data":[{"index":0,"embedding":[1]}]}`)
			}),
		},
	}
	if _, err := client.Embeddings(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error for missing embeddings")
	}
}

func TestEmbeddingsRequiresConfig(t *testing.T) {
	if _, err := (&Client{}).Embeddings(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error without base URL and model")
	}
}

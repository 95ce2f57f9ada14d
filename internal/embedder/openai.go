package embedder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// dimensionProbe is embedded once to learn the provider's vector length
// before the collection is created.
const dimensionProbe = "dimension probe"

// OpenAI embeds text through an OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAI creates an embedder for the given gateway. baseURL may be empty
// to use the provider default.
func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Embed generates an embedding for a single text.
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:          openai.EmbeddingModel(e.model),
		Input:          []string{text},
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts. The gateway this
// targets rejects multi-input requests, so texts are embedded one by one.
func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimension learns the vector length by embedding a fixed probe string once
// and caches the answer.
func (e *OpenAI) Dimension(ctx context.Context) (int, error) {
	if e.dim > 0 {
		return e.dim, nil
	}
	vec, err := e.Embed(ctx, dimensionProbe)
	if err != nil {
		return 0, fmt.Errorf("dimension probe failed: %w", err)
	}
	if len(vec) == 0 {
		return 0, fmt.Errorf("dimension probe returned an empty vector")
	}
	e.dim = len(vec)
	return e.dim, nil
}

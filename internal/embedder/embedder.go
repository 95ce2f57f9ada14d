package embedder

import "context"

// Embedder turns text into fixed-length vectors.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for multiple texts, one vector per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the vector length the provider produces. It may issue
	// one probe request on first use.
	Dimension(ctx context.Context) (int, error)
}

// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is the model behind the embedding engine.
//
// Implementations include:
//   - local (feature hashing, offline)
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Embedder turns chunk texts into vectors of a fixed dimension.
// It is what services depend on; the engine implements it on top of an
// EmbeddingService.
type Embedder interface {
	// Embed returns one vector per text, in order. Empty input yields
	// empty output.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed vector size.
	Dimensions() int
}

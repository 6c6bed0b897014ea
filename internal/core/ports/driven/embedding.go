package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Contract:
//   - Empty or whitespace-only input returns an empty vector without
//     calling the remote service. The empty vector is the sentinel for
//     "no embedding" and callers must treat it as a failed embedding.
//   - A non-200 response from the remote service is a hard error.
//   - This layer performs no retries. The generation side owns retry
//     policy for the online path; the bulk ingestion path is fail-fast.
//
// Implementations may include:
//   - Jina (jina-embeddings-v3)
//   - Any OpenAI-compatible /v1/embeddings endpoint
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// Used by the offline ingestion path; fails fast on any error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This is determined by the model and must match the collection.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

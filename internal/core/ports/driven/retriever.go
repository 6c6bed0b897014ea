package driven

import (
	"context"

	"github.com/admitkit/prospecta-cli/internal/core/domain"
)

// Retriever performs top-k similarity search over the passage collection.
//
// Contract:
//   - Results are passage texts ordered most-similar first, at most topK
//     of them, or fewer if the collection is smaller.
//   - Store-internal query failures degrade to an empty result inside the
//     implementation (logged, not returned): retrieval failure means "no
//     results", not an exception. A non-nil error indicates the store
//     itself is unusable and maps to a distinct user-facing message.
//   - Constructors fail fast if the storage location or collection name
//     is unset, or the collection does not already exist. Retrievers
//     never create collections; only the offline ingestion path does.
type Retriever interface {
	// Retrieve returns the texts of the topK passages closest to the
	// query embedding.
	Retrieve(ctx context.Context, embedding []float32, topK int) ([]string, error)

	// Close releases resources.
	Close() error
}

// PassageWriter persists passages with their embeddings. This is the
// offline ingestion surface; the online query path only reads.
type PassageWriter interface {
	// CreateCollection creates the collection if it does not exist.
	CreateCollection(ctx context.Context) error

	// Add inserts passages into the collection.
	Add(ctx context.Context, passages []domain.Passage) error

	// Count returns the number of passages in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

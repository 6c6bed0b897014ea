package driving

import "context"

// Answerer answers natural-language questions about the indexed corpus.
// The single public surface of the pipeline: a raw query string in, one
// answer string out. Every failure mode is converted to a fixed
// user-facing message; implementations never return an error.
type Answerer interface {
	Answer(ctx context.Context, query string) string
}

// Ingester runs the offline ingestion pipeline over extracted document
// text and reports how many passages were stored.
type Ingester interface {
	Ingest(ctx context.Context, text string) (int, error)
}

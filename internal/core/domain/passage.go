package domain

import "fmt"

// Passage is the unit of retrievable text. Passages are created once by
// the offline ingestion path and are read-only at query time; the online
// path never updates or deletes them.
type Passage struct {
	// ID is the stable identifier, derived from ingestion order.
	ID string

	// Content is the passage text.
	Content string

	// Embedding is the vector representation. Its dimension is fixed by
	// the embedding model and must match the query-embedding dimension.
	Embedding []float32

	// Metadata holds classification labels derived deterministically
	// from Content at ingestion time.
	Metadata PassageMetadata

	// Position is the ordinal position within the ingested document.
	Position int
}

// PassageMetadata holds the classification labels attached to a passage.
// Labels are produced by the keyword rules in classify.go and are never
// mutated after ingestion.
type PassageMetadata struct {
	Department string
	Course     string
	Section    string
	TopicType  string
	Source     string
}

// PassageID builds the stable identifier for the passage at the given
// ingestion position.
func PassageID(position int) string {
	return fmt.Sprintf("chunk_%d", position)
}

// FAQEntry is a canned question/answer pair. High-confidence matches
// against the FAQ list short-circuit the retrieval pipeline.
type FAQEntry struct {
	Question string
	Answer   string
}

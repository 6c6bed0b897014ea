package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMissingAPIKey indicates a remote-service credential was not
	// supplied. Fatal at construction, never retried.
	ErrMissingAPIKey = errors.New("API key is not set")

	// ErrMissingCollection indicates the vector store location or
	// collection name is unset. Fatal at construction.
	ErrMissingCollection = errors.New("collection is not configured")

	// ErrCollectionNotFound indicates the named collection does not exist
	// in the store. The online path never creates collections; only the
	// offline ingestion path does.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed indicates the remote embedding service failed.
	// The bulk ingestion path treats this as fatal; the online query path
	// degrades to an empty vector and a user-facing message.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector's dimension does not match
	// the collection's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

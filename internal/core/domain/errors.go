package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfiguration indicates chunking or service parameters that
	// cannot produce a valid result (e.g. overlap >= window).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoContent indicates there is no text to ingest.
	ErrNoContent = errors.New("no content")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIndexUnavailable indicates a vector index blob is missing or corrupt.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrInvalidRequest indicates a request is missing a required field.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmbeddingUnavailable indicates the embedding model could not be loaded.
	// This is fatal for the process and is reported once at start-up.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates a vector whose size differs from the
	// dimension of the loaded model or index.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

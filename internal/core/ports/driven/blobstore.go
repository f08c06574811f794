package driven

import "context"

// BlobStore is a key-value store for opaque binary blobs.
// Writes are atomic: readers see either the old blob or the new one.
type BlobStore interface {
	// Put writes data under key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the blob under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key. Missing keys are ignored.
	Delete(ctx context.Context, key string) error
}

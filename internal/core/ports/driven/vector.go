package driven

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// VectorIndex is a loaded, immutable per-document nearest-neighbour index.
type VectorIndex interface {
	// Search returns up to k neighbours by ascending squared L2 distance,
	// ties broken by ascending position. k is clamped to Len.
	Search(query []float32, k int) ([]domain.Neighbour, error)

	// Len returns the number of vectors.
	Len() int

	// Dimensions returns the vector size.
	Dimensions() int
}

// IndexStore builds and persists vector indexes keyed by index path.
type IndexStore interface {
	// Save builds an index from vectors (position i = vectors[i]) and
	// publishes it atomically at path, overwriting any existing blob.
	Save(ctx context.Context, path string, vectors [][]float32) error

	// Load reads the index at path. A missing or corrupt blob returns
	// domain.ErrIndexUnavailable.
	Load(ctx context.Context, path string) (VectorIndex, error)

	// Delete removes the blob at path. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error
}

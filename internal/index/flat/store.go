package flat

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IndexStore = (*Store)(nil)

// Store persists flat indexes as blobs keyed by index path.
type Store struct {
	blobs driven.BlobStore
}

// NewStore creates an index store on top of blobs.
func NewStore(blobs driven.BlobStore) *Store {
	return &Store{blobs: blobs}
}

// Save builds an index from vectors and publishes it at path.
func (s *Store) Save(ctx context.Context, path string, vectors [][]float32) error {
	idx, err := Build(vectors)
	if err != nil {
		return err
	}
	return Persist(ctx, s.blobs, idx, path)
}

// Load reads and decodes the index at path.
func (s *Store) Load(ctx context.Context, path string) (driven.VectorIndex, error) {
	idx, err := Load(ctx, s.blobs, path)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Delete removes the blob at path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.blobs.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete index %s: %w", path, err)
	}
	return nil
}

// Persist encodes idx and writes it to blobs at path, overwriting any
// existing blob.
func Persist(ctx context.Context, blobs driven.BlobStore, idx *Index, path string) error {
	data, err := idx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := blobs.Put(ctx, path, data); err != nil {
		return fmt.Errorf("persist index %s: %w", path, err)
	}
	return nil
}

// Load reads the blob at path and decodes it. A missing blob or a decode
// failure returns domain.ErrIndexUnavailable.
func Load(ctx context.Context, blobs driven.BlobStore, path string) (*Index, error) {
	data, err := blobs.Get(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load index %s: %w", path, domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("load index %s: %w: %w", path, domain.ErrIndexUnavailable, err)
	}

	idx := &Index{}
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("load index %s: %w", path, err)
	}
	return idx, nil
}

package driving

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// DocumentService exposes stored documents.
type DocumentService interface {
	// Get retrieves a document by filename.
	Get(ctx context.Context, filename string) (*domain.Document, error)

	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Content returns the document's chunks in ordinal order.
	Content(ctx context.Context, filename string) ([]domain.TextChunk, error)

	// Delete removes a document, its chunks and its index blob.
	Delete(ctx context.Context, filename string) error
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides read and delete access to stored documents.
type DocumentService struct {
	docs    driven.DocumentStore
	indexes driven.IndexStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docs driven.DocumentStore, indexes driven.IndexStore) *DocumentService {
	return &DocumentService{
		docs:    docs,
		indexes: indexes,
	}
}

// Get retrieves a document by filename.
func (s *DocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidRequest)
	}
	doc, err := s.docs.FindByFilename(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", filename, err)
	}
	return doc, nil
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docs.List(ctx)
}

// Content returns the document's chunks in ordinal order.
func (s *DocumentService) Content(ctx context.Context, filename string) ([]domain.TextChunk, error) {
	doc, err := s.Get(ctx, filename)
	if err != nil {
		return nil, err
	}
	return s.docs.Chunks(ctx, doc.ID)
}

// Delete removes the document row first, then its index blob. A failed blob
// removal is logged; the document is already gone.
func (s *DocumentService) Delete(ctx context.Context, filename string) error {
	doc, err := s.Get(ctx, filename)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, filename); err != nil {
		return fmt.Errorf("delete document %s: %w", filename, err)
	}
	if err := s.indexes.Delete(ctx, doc.IndexPath); err != nil {
		logger.With("filename", filename, "index", doc.IndexPath).Warn("failed to remove index: %v", err)
	}
	return nil
}

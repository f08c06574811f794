package driven

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// Insert creates a document and its chunks in one transaction.
	// chunks[i] is stored with ordinal i. If a document with the same
	// filename exists, it returns domain.ErrAlreadyExists and writes nothing.
	Insert(ctx context.Context, filename, indexPath string, chunks []string) (*domain.Document, error)

	// FindByFilename retrieves a document by its unique filename.
	// Returns domain.ErrNotFound if absent.
	FindByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// ChunkByOrdinal retrieves the chunk at ordinal within a document.
	ChunkByOrdinal(ctx context.Context, documentID string, ordinal int) (*domain.TextChunk, error)

	// Chunks returns all chunks for a document in ordinal order.
	Chunks(ctx context.Context, documentID string) ([]domain.TextChunk, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document and its chunks.
	// Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, filename string) error
}

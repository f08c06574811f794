package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document // keyed by filename
	chunks    map[string][]domain.TextChunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.TextChunk),
	}
}

// Insert stores a document and its chunks atomically.
func (s *DocumentStore) Insert(ctx context.Context, filename, indexPath string, chunks []string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[filename]; exists {
		return nil, domain.ErrAlreadyExists
	}

	doc := domain.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		IndexPath:  indexPath,
		ChunkCount: len(chunks),
		UploadedAt: time.Now().UTC(),
	}

	stored := make([]domain.TextChunk, len(chunks))
	for i, text := range chunks {
		stored[i] = domain.TextChunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Ordinal:    i,
			Text:       text,
		}
	}

	s.documents[filename] = doc
	s.chunks[doc.ID] = stored
	return &doc, nil
}

// FindByFilename retrieves a document by filename.
func (s *DocumentStore) FindByFilename(_ context.Context, filename string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ChunkByOrdinal retrieves a specific chunk by position.
func (s *DocumentStore) ChunkByOrdinal(_ context.Context, documentID string, ordinal int) (*domain.TextChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := s.chunks[documentID]
	if ordinal < 0 || ordinal >= len(chunks) {
		return nil, domain.ErrNotFound
	}
	chunk := chunks[ordinal]
	return &chunk, nil
}

// Chunks retrieves all chunks for a document.
func (s *DocumentStore) Chunks(_ context.Context, documentID string) ([]domain.TextChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.TextChunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// List returns all documents, newest first.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].Filename < result[j].Filename
	})
	return result, nil
}

// Delete removes a document and its chunks.
func (s *DocumentStore) Delete(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[filename]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, filename)
	delete(s.chunks, doc.ID)
	return nil
}

package tui

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

type mockSearchService struct {
	hits []domain.SearchHit
	err  error
}

func (m *mockSearchService) Search(_ context.Context, _, _ string, _ int) ([]domain.SearchHit, error) {
	return m.hits, m.err
}

type mockDocumentService struct {
	docs   []domain.Document
	chunks []domain.TextChunk
}

func (m *mockDocumentService) List(context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].Filename == filename {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Content(context.Context, string) ([]domain.TextChunk, error) {
	return m.chunks, nil
}

func (m *mockDocumentService) Delete(context.Context, string) error {
	return nil
}

package mcp

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits []domain.SearchHit
	err  error

	gotFilename string
	gotQuery    string
	gotK        int
}

func (m *mockSearchService) Search(_ context.Context, filename, query string, k int) ([]domain.SearchHit, error) {
	m.gotFilename, m.gotQuery, m.gotK = filename, query, k
	return m.hits, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	chunks    []domain.TextChunk
	err       error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Content(_ context.Context, _ string) ([]domain.TextChunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	document *domain.Document
	err      error

	gotText     string
	gotFilename string
}

func (m *mockIngestService) Ingest(_ context.Context, rawText, sourceFilename string) (*domain.Document, error) {
	m.gotText, m.gotFilename = rawText, sourceFilename
	return m.document, m.err
}

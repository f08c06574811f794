package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

type mockIngestService struct {
	gotText string
	gotName string
	err     error
}

func (m *mockIngestService) Ingest(_ context.Context, rawText, sourceFilename string) (*domain.Document, error) {
	m.gotText, m.gotName = rawText, sourceFilename
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{
		ID:         "doc-1",
		Filename:   sourceFilename,
		IndexPath:  "notes-0123456789abcdef.idx",
		ChunkCount: 2,
		UploadedAt: time.Now(),
	}, nil
}

type mockSearchService struct {
	gotFilename string
	gotQuery    string
	gotK        int
	hits        []domain.SearchHit
	err         error
}

func (m *mockSearchService) Search(_ context.Context, filename, query string, k int) ([]domain.SearchHit, error) {
	m.gotFilename, m.gotQuery, m.gotK = filename, query, k
	return m.hits, m.err
}

type mockDocumentService struct {
	docs    []domain.Document
	chunks  []domain.TextChunk
	deleted string
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].Filename == filename {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockDocumentService) Content(ctx context.Context, filename string) ([]domain.TextChunk, error) {
	if _, err := m.Get(ctx, filename); err != nil {
		return nil, err
	}
	return m.chunks, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, filename string) error {
	if _, err := m.Get(ctx, filename); err != nil {
		return err
	}
	m.deleted = filename
	return nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	gotProvider domain.EmbeddingProvider
	gotModel    string
	gotAPIKey   string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Load() (*domain.AppSettings, error) {
	return m.Get()
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	m.gotProvider, m.gotModel, m.gotAPIKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	ingest   *mockIngestService
	search   *mockSearchService
	document *mockDocumentService
	settings *mockSettingsService
}

// setupTestServices installs mock services and returns a restore function.
func setupTestServices() (*testServices, func()) {
	oldIngest, oldSearch, oldDocument := ingestService, searchService, documentService
	oldStaging, oldSettings := stagingService, settingsService

	uploaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := &testServices{
		ingest: &mockIngestService{},
		search: &mockSearchService{hits: []domain.SearchHit{
			{Ordinal: 1, ChunkText: "D E F G", Distance: 0.125},
			{Ordinal: 0, ChunkText: "A B C D", Distance: 0.5},
		}},
		document: &mockDocumentService{
			docs: []domain.Document{
				{ID: "doc-1", Filename: "notes.txt", IndexPath: "notes-0123456789abcdef.idx", ChunkCount: 2, UploadedAt: uploaded},
			},
			chunks: []domain.TextChunk{
				{ID: "c0", DocumentID: "doc-1", Ordinal: 0, Text: "A B C D"},
				{ID: "c1", DocumentID: "doc-1", Ordinal: 1, Text: "D E F G"},
			},
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	SetServices(Services{
		Ingest:   ts.ingest,
		Search:   ts.search,
		Document: ts.document,
		Settings: ts.settings,
	})

	return ts, func() {
		ingestService, searchService, documentService = oldIngest, oldSearch, oldDocument
		stagingService, settingsService = oldStaging, oldSettings
	}
}

// execute runs the root command with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

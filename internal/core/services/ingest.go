package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// maxStemLen bounds the readable part of an index path.
const maxStemLen = 64

// IngestService chunks, embeds and indexes document text and records the
// resulting Document.
type IngestService struct {
	chunker  driven.Chunker
	embedder driven.Embedder
	indexes  driven.IndexStore
	docs     driven.DocumentStore
	locks    *keyedMutex
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	chunker driven.Chunker,
	embedder driven.Embedder,
	indexes driven.IndexStore,
	docs driven.DocumentStore,
) *IngestService {
	return &IngestService{
		chunker:  chunker,
		embedder: embedder,
		indexes:  indexes,
		docs:     docs,
		locks:    newKeyedMutex(),
	}
}

// Ingest stores rawText as a new searchable document named sourceFilename.
func (s *IngestService) Ingest(ctx context.Context, rawText, sourceFilename string) (*domain.Document, error) {
	if strings.TrimSpace(sourceFilename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: %s has no text", domain.ErrNoContent, sourceFilename)
	}

	log := logger.With("filename", sourceFilename)

	unlock := s.locks.Lock(sourceFilename)
	defer unlock()

	// Fail fast before spending any embedding work
	if _, err := s.docs.FindByFilename(ctx, sourceFilename); err == nil {
		return nil, fmt.Errorf("document %s: %w", sourceFilename, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup document: %w", err)
	}

	chunks, err := s.chunker.Chunk(ctx, rawText)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", sourceFilename, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s has no text", domain.ErrNoContent, sourceFilename)
	}
	log.Debug("chunked into %d windows", len(chunks))

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", sourceFilename, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d chunks", sourceFilename, len(vectors), len(chunks))
	}

	// Each attempt writes its own blob, so a writer that loses the insert
	// race in another process never replaces the winner's index.
	indexPath := IndexPath(sourceFilename, uuid.NewString())
	if err := s.indexes.Save(ctx, indexPath, vectors); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	doc, err := s.docs.Insert(ctx, sourceFilename, indexPath, chunks)
	if err != nil {
		s.discardIndex(ctx, indexPath, log)
		return nil, err
	}

	log.With("chunks", doc.ChunkCount, "index", indexPath).Info("ingested document")
	return doc, nil
}

// discardIndex removes an index whose document was never recorded.
// It runs even when ctx is already cancelled.
func (s *IngestService) discardIndex(ctx context.Context, indexPath string, log logger.Fields) {
	if err := s.indexes.Delete(context.WithoutCancel(ctx), indexPath); err != nil {
		log.With("index", indexPath).Warn("failed to remove orphaned index: %v", err)
	}
}

// IndexPath derives the blob key for one ingestion attempt of filename: a
// readable stem, the 64-bit xxhash of the full filename and the attempt ID.
func IndexPath(filename, attempt string) string {
	return fmt.Sprintf("%s-%016x-%s.idx", sanitizeStem(filename), xxhash.Sum64String(filename), attempt)
}

// sanitizeStem keeps letters, digits, dot, dash and underscore from the
// filename's base name without extension.
func sanitizeStem(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if len(out) > maxStemLen {
		out = out[:maxStemLen]
	}
	if out == "" {
		return "document"
	}
	return out
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// Ensure StagingService implements the interface.
var _ driving.StagingService = (*StagingService)(nil)

// StagingService holds extracted text per client until it is stored or
// cancelled.
type StagingService struct {
	pending driven.PendingStore
	ingest  driving.IngestService
}

// NewStagingService creates a new staging service.
func NewStagingService(pending driven.PendingStore, ingest driving.IngestService) *StagingService {
	return &StagingService{
		pending: pending,
		ingest:  ingest,
	}
}

// Stage replaces the client's pending upload.
func (s *StagingService) Stage(ctx context.Context, sessionKey, rawText, sourceFilename string) error {
	if sessionKey == "" {
		return fmt.Errorf("%w: session key is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(sourceFilename) == "" {
		return fmt.Errorf("%w: filename is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(rawText) == "" {
		return fmt.Errorf("%w: %s has no text", domain.ErrNoContent, sourceFilename)
	}
	return s.pending.Stage(ctx, domain.PendingUpload{
		SessionKey:     sessionKey,
		RawText:        rawText,
		SourceFilename: sourceFilename,
	})
}

// Peek returns the pending upload without clearing it.
func (s *StagingService) Peek(ctx context.Context, sessionKey string) (*domain.PendingUpload, error) {
	upload, err := s.pending.Peek(ctx, sessionKey)
	if err != nil {
		return nil, noContent(err)
	}
	return upload, nil
}

// Store ingests the pending upload. The slot is cleared only when the
// ingestion succeeds, so a failed store can be retried.
func (s *StagingService) Store(ctx context.Context, sessionKey string) (*domain.Document, error) {
	upload, err := s.pending.Peek(ctx, sessionKey)
	if err != nil {
		return nil, noContent(err)
	}

	doc, err := s.ingest.Ingest(ctx, upload.RawText, upload.SourceFilename)
	if err != nil {
		return nil, err
	}

	if err := s.pending.Clear(ctx, sessionKey); err != nil {
		return nil, fmt.Errorf("clear pending upload: %w", err)
	}
	return doc, nil
}

// Cancel discards the pending upload.
func (s *StagingService) Cancel(ctx context.Context, sessionKey string) error {
	return s.pending.Clear(ctx, sessionKey)
}

// noContent maps an empty pending slot to domain.ErrNoContent.
func noContent(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: no data to store", domain.ErrNoContent)
	}
	return err
}

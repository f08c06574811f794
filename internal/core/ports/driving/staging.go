package driving

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// StagingService manages the per-client pending upload slot.
type StagingService interface {
	// Stage replaces the client's pending upload.
	Stage(ctx context.Context, sessionKey, rawText, sourceFilename string) error

	// Peek returns the pending upload without clearing it.
	// Returns domain.ErrNoContent if nothing is staged.
	Peek(ctx context.Context, sessionKey string) (*domain.PendingUpload, error)

	// Store ingests the pending upload and clears it on success.
	Store(ctx context.Context, sessionKey string) (*domain.Document, error)

	// Cancel discards the pending upload.
	Cancel(ctx context.Context, sessionKey string) error
}

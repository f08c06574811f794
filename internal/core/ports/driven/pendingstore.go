package driven

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// PendingStore holds at most one staged upload per session key.
type PendingStore interface {
	// Stage creates or replaces the upload for its session key.
	Stage(ctx context.Context, upload domain.PendingUpload) error

	// Peek reads the upload without clearing it.
	// Returns domain.ErrNotFound if no upload is staged.
	Peek(ctx context.Context, sessionKey string) (*domain.PendingUpload, error)

	// Clear removes the upload. Clearing an empty slot is not an error.
	Clear(ctx context.Context, sessionKey string) error
}

package driving

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// IngestService turns raw document text into a stored, searchable Document.
type IngestService interface {
	// Ingest chunks, embeds, indexes and stores rawText under sourceFilename.
	Ingest(ctx context.Context, rawText, sourceFilename string) (*domain.Document, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// SearchService answers similarity queries against one document's index.
type SearchService interface {
	// Search returns up to k chunks of filename closest to query.
	// k <= 0 uses the configured default; larger values are capped.
	Search(ctx context.Context, filename, query string, k int) ([]domain.SearchHit, error)
}

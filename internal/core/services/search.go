package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultMaxK caps k when no limit is configured.
const DefaultMaxK = 50

// SearchService answers similarity queries against a single document.
type SearchService struct {
	embedder driven.Embedder
	indexes  driven.IndexStore
	docs     driven.DocumentStore
	defaultK int
	maxK     int
}

// NewSearchService creates a new search service. defaultK and maxK fall
// back to domain.DefaultSearchK and DefaultMaxK when not positive.
func NewSearchService(
	embedder driven.Embedder,
	indexes driven.IndexStore,
	docs driven.DocumentStore,
	defaultK, maxK int,
) *SearchService {
	if defaultK <= 0 {
		defaultK = domain.DefaultSearchK
	}
	if maxK <= 0 {
		maxK = DefaultMaxK
	}
	if maxK < defaultK {
		maxK = defaultK
	}
	return &SearchService{
		embedder: embedder,
		indexes:  indexes,
		docs:     docs,
		defaultK: defaultK,
		maxK:     maxK,
	}
}

// Search returns the chunks of filename nearest to query, closest first.
func (s *SearchService) Search(ctx context.Context, filename, query string, k int) ([]domain.SearchHit, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}

	doc, err := s.docs.FindByFilename(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", filename, err)
	}

	idx, err := s.indexes.Load(ctx, doc.IndexPath)
	if err != nil {
		return nil, err
	}
	if idx.Len() != doc.ChunkCount {
		return nil, fmt.Errorf("index %s holds %d vectors for %d chunks: %w",
			doc.IndexPath, idx.Len(), doc.ChunkCount, domain.ErrIndexUnavailable)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}

	neighbours, err := idx.Search(vectors[0], s.clampK(k))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", doc.IndexPath, err)
	}

	hits := make([]domain.SearchHit, 0, len(neighbours))
	for _, n := range neighbours {
		chunk, err := s.docs.ChunkByOrdinal(ctx, doc.ID, n.Position)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("index %s position %d has no chunk: %w",
					doc.IndexPath, n.Position, domain.ErrIndexUnavailable)
			}
			return nil, fmt.Errorf("resolve chunk %d: %w", n.Position, err)
		}
		hits = append(hits, domain.SearchHit{
			Ordinal:   chunk.Ordinal,
			ChunkText: chunk.Text,
			Distance:  n.Distance,
		})
	}

	logger.With("filename", filename, "k", len(hits)).Debug("search complete")
	return hits, nil
}

func (s *SearchService) clampK(k int) int {
	if k <= 0 {
		return s.defaultK
	}
	if k > s.maxK {
		return s.maxK
	}
	return k
}

// Package postprocessors provides text preparation and chunking.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// TextFilter rewrites document text before it is chunked.
type TextFilter interface {
	// Name returns the filter name for logging and configuration.
	Name() string

	// Apply returns the filtered text.
	Apply(text string) string
}

// Pipeline runs text through filters in order and then chunks it.
// It implements the driven.Chunker interface.
type Pipeline struct {
	chunker driven.Chunker
	filters []TextFilter
}

// NewPipeline creates a new pipeline around chunker.
// Filters are applied in the order provided.
func NewPipeline(chunker driven.Chunker, filters ...TextFilter) *Pipeline {
	return &Pipeline{
		chunker: chunker,
		filters: filters,
	}
}

// Name returns the underlying chunker name.
func (p *Pipeline) Name() string {
	return p.chunker.Name()
}

// Chunk filters text and splits it into windows.
func (p *Pipeline) Chunk(ctx context.Context, text string) ([]string, error) {
	for _, f := range p.filters {
		text = f.Apply(text)
	}

	chunks, err := p.chunker.Chunk(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", p.chunker.Name(), err)
	}
	return chunks, nil
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

package postprocessors

import (
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/postprocessors/chunker"
)

// DefaultFilters lists the filters applied when none are configured.
var DefaultFilters = []string{"strip_control"}

// RegisterDefaults registers all built-in filters with the registry.
// Call this during application initialisation to enable standard filters.
func RegisterDefaults(r *Registry) {
	r.Register("strip_control", func(map[string]any) (TextFilter, error) {
		return ControlCharFilter{}, nil
	})
	r.Register("dehyphenate", func(map[string]any) (TextFilter, error) {
		return DehyphenateFilter{}, nil
	})
}

// Build creates the chunking pipeline for the given settings.
// filterNames selects registered filters in order; nil uses DefaultFilters
// and an empty slice disables filtering.
func Build(cfg domain.ChunkingSettings, filterNames []string) (*Pipeline, error) {
	c, err := chunker.New(chunker.WithWindow(cfg.Window), chunker.WithOverlap(cfg.Overlap))
	if err != nil {
		return nil, err
	}

	if filterNames == nil {
		filterNames = DefaultFilters
	}

	r := NewRegistry()
	RegisterDefaults(r)
	filters, err := r.BuildAll(filterNames)
	if err != nil {
		return nil, err
	}

	return NewPipeline(c, filters...), nil
}

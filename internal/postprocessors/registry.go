package postprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// BuilderFunc creates a TextFilter from generic config.
// Config is a map of filter-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (TextFilter, error)

// Registry maps filter names to their builders.
// It allows dynamic construction of filters from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new filter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a filter builder to the registry.
// Name should be unique and match the filter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a filter by name with the given config.
// An unregistered name returns domain.ErrInvalidConfiguration.
func (r *Registry) Build(name string, cfg map[string]any) (TextFilter, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter %q, available: %s",
			domain.ErrInvalidConfiguration, name, strings.Join(r.Names(), ", "))
	}
	return builder(cfg)
}

// BuildAll creates filters for each name, in order.
func (r *Registry) BuildAll(names []string) ([]TextFilter, error) {
	filters := make([]TextFilter, 0, len(names))
	for _, name := range names {
		f, err := r.Build(name, nil)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Names returns all registered filter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

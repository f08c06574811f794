// Package tui provides an interactive terminal interface for searching
// stored documents. It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Search answers similarity queries.
	Search driving.SearchService

	// Document lists documents and loads their chunks.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers similarity queries.
	Search driving.SearchService

	// Document exposes stored documents.
	Document driving.DocumentService

	// Ingest stores new documents. Optional; the ingest tool is only
	// registered when it is set.
	Ingest driving.IngestService
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

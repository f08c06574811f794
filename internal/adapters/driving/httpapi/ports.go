package httpapi

import (
	"context"
	"errors"

	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// Errors returned by Ports.Validate.
var (
	ErrMissingStagingService  = errors.New("httpapi: staging service is required")
	ErrMissingSearchService   = errors.New("httpapi: search service is required")
	ErrMissingDocumentService = errors.New("httpapi: document service is required")
)

// TextExtractor converts uploaded files into document text.
type TextExtractor interface {
	Supports(filename string) bool
	Extensions() []string
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Ports aggregates the driving ports the HTTP API calls into.
type Ports struct {
	Staging  driving.StagingService
	Search   driving.SearchService
	Document driving.DocumentService

	// Extractor defaults to the built-in normalisers when nil.
	Extractor TextExtractor
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Staging == nil:
		return ErrMissingStagingService
	case p.Search == nil:
		return ErrMissingSearchService
	case p.Document == nil:
		return ErrMissingDocumentService
	}
	return nil
}

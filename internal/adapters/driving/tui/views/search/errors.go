package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoDocument indicates a search was attempted before picking a document.
	ErrNoDocument = errors.New("no document selected")
)

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// SearchCompleted carries search hits back to the model.
type SearchCompleted struct {
	Query string
	Hits  []domain.SearchHit
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists stored documents to pick from.
	ViewDocuments ViewType = iota
	// ViewSearch queries the selected document.
	ViewSearch
	// ViewDocContent shows the selected document chunk by chunk.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewSearch:
		return "search"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the stored documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was picked for searching.
type DocumentSelected struct {
	Document domain.Document
}

// ChunkOpened asks to show a document scrolled to one chunk.
type ChunkOpened struct {
	Filename string
	Ordinal  int
}

// DocumentContentLoaded carries a document's chunks.
type DocumentContentLoaded struct {
	Filename string
	Chunks   []domain.TextChunk
	Err      error
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	Filename string
	Err      error
}

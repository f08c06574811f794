package domain

import "time"

// Document is an ingested source file.
// A document is created once and never mutated afterwards.
type Document struct {
	// ID is the system-generated unique identifier.
	ID string `json:"id"`

	// Filename is the unique name the document was ingested under.
	Filename string `json:"filename"`

	// IndexPath is the blob key of the document's persisted vector index.
	IndexPath string `json:"index_path"`

	// ChunkCount is the number of TextChunk rows (and index vectors).
	ChunkCount int `json:"chunk_count"`

	// UploadedAt is when the document was stored.
	UploadedAt time.Time `json:"uploaded_at"`
}

// TextChunk is one overlapping window of a document's text.
// Ordinal i corresponds to vector position i in the document's index.
type TextChunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the owning Document.
	DocumentID string `json:"document_id"`

	// Ordinal is the 0-based position within the document.
	Ordinal int `json:"ordinal"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// PendingUpload is extracted text staged under a client key until the
// client asks for it to be stored.
type PendingUpload struct {
	// SessionKey is the opaque per-client token. The core never interprets it.
	SessionKey string

	// RawText is the extracted document text.
	RawText string

	// SourceFilename is the name of the uploaded file.
	SourceFilename string

	// CreatedAt is when the text was staged.
	CreatedAt time.Time
}

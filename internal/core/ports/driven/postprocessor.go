package driven

import "context"

// Chunker splits document text into ordered, overlapping windows.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk returns the windows in ordinal order.
	// Empty text returns no chunks and no error.
	Chunk(ctx context.Context, text string) ([]string, error)
}

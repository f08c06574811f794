package driven

import "context"

// Normaliser turns the bytes of an uploaded file into plain document text.
// Each normaliser handles specific file extensions (e.g. ".md").
type Normaliser interface {
	// Name identifies the normaliser in logs.
	Name() string

	// Extensions returns the lowercase file extensions handled, with dot.
	Extensions() []string

	// Normalise returns the readable text of data.
	Normalise(ctx context.Context, data []byte) (string, error)
}

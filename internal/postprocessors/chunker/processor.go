// Package chunker provides a word-window text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// DefaultWindow is the default number of words per chunk.
const DefaultWindow = 500

// DefaultOverlap is the default number of words shared by consecutive chunks.
const DefaultOverlap = 100

// Processor splits text into overlapping word windows.
// It implements the driven.Chunker interface.
type Processor struct {
	window  int
	overlap int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithWindow sets the window size in words.
func WithWindow(window int) Option {
	return func(p *Processor) {
		p.window = window
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// Returns domain.ErrInvalidConfiguration if the window would not advance.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		window:  DefaultWindow,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := validate(p.window, p.overlap); err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Window returns the configured window size.
func (p *Processor) Window() int {
	return p.window
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text into word windows in ordinal order.
func (p *Processor) Chunk(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Split(text, p.window, p.overlap)
}

// Split tokenises text on whitespace and emits windows of window tokens at
// a stride of window-overlap, each joined by single spaces. Emission stops
// once the start index reaches the token count, so the last window may be
// shorter than window.
func Split(text string, window, overlap int) ([]string, error) {
	if err := validate(window, overlap); err != nil {
		return nil, err
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	stride := window - overlap
	chunks := make([]string, 0, len(tokens)/stride+1)

	for start := 0; start < len(tokens); start += stride {
		end := start + window
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
	}

	return chunks, nil
}

func validate(window, overlap int) error {
	cfg := domain.ChunkingSettings{Window: window, Overlap: overlap}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("chunker: %w", err)
	}
	return nil
}

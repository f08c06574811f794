// Package embedding provides the process-wide embedding engine.
//
// The engine wraps an embedding model that is loaded exactly once, normally
// at startup through Load. A load failure is permanent: every later call
// reports the same domain.ErrEmbeddingUnavailable instead of retrying the
// load per request.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// Verify interface compliance.
var _ driven.Embedder = (*Engine)(nil)

// Default configuration values.
const (
	DefaultBatchSize   = 32
	DefaultConcurrency = 4
)

// Loader creates the embedding model.
type Loader func(ctx context.Context) (driven.EmbeddingService, error)

// Option configures the engine.
type Option func(*Engine)

// WithBatchSize sets the number of texts sent to the model per call.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithConcurrency bounds the number of batches embedded at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithDimensions fixes the expected vector size. Without it the model's
// reported size is used.
func WithDimensions(d int) Option {
	return func(e *Engine) {
		if d > 0 {
			e.dimensions = d
		}
	}
}

// Engine embeds texts with a lazily loaded model.
type Engine struct {
	load        Loader
	batchSize   int
	concurrency int
	dimensions  int

	once    sync.Once
	mu      sync.RWMutex
	model   driven.EmbeddingService
	loadErr error
}

// New creates an engine. The model is not loaded until first use or Load.
func New(load Loader, opts ...Option) *Engine {
	e := &Engine{
		load:        load,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load loads the model if it has not been loaded yet and returns the
// outcome of the single load attempt. Cancellation of ctx does not reach
// the loader, so an abandoned caller cannot become the permanent result.
func (e *Engine) Load(ctx context.Context) error {
	e.once.Do(func() {
		logger.Debug("embedding: loading model")
		model, err := e.load(context.WithoutCancel(ctx))
		if err != nil {
			e.loadErr = wrapUnavailable(err)
			logger.Error("embedding model failed to load: %v", err)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.dimensions == 0 {
			e.dimensions = model.Dimensions()
		} else if model.Dimensions() != e.dimensions {
			e.loadErr = fmt.Errorf("%w: model %s produces %d dimensions, want %d",
				domain.ErrEmbeddingUnavailable, model.ModelName(), model.Dimensions(), e.dimensions)
			model.Close()
			logger.Error("%v", e.loadErr)
			return
		}
		e.model = model
		logger.With("model", model.ModelName(), "dimensions", e.dimensions).Info("embedding model loaded")
	})
	return e.loadErr
}

// Embed returns one vector per text, in input order. Texts are split into
// batches that run concurrently and are stitched back by position. Empty
// input returns an empty result without loading the model.
func (e *Engine) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := e.Load(ctx); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vecs, err := e.model.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed batch %d-%d: model returned %d vectors", start, end, len(vecs))
			}
			for i, v := range vecs {
				if len(v) != e.dimensions {
					return fmt.Errorf("embed text %d: got %d dimensions, want %d: %w",
						start+i, len(v), e.dimensions, domain.ErrDimensionMismatch)
				}
				out[start+i] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedOne embeds a single text.
func (e *Engine) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Dimensions returns the vector size. Before the model is loaded it is the
// configured size, or 0 if none was configured.
func (e *Engine) Dimensions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimensions
}

// ModelName returns the loaded model's name, or "" before loading.
func (e *Engine) ModelName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.model == nil {
		return ""
	}
	return e.model.ModelName()
}

// Close releases the model.
func (e *Engine) Close() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.model == nil {
		return nil
	}
	return e.model.Close()
}

func wrapUnavailable(err error) error {
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
}

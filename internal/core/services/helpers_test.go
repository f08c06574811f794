package services

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	blobfs "github.com/custodia-labs/semdoc/internal/adapters/driven/blob/fs"
	"github.com/custodia-labs/semdoc/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/semdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/embedding"
	"github.com/custodia-labs/semdoc/internal/index/flat"
	"github.com/custodia-labs/semdoc/internal/postprocessors/chunker"
)

// countingEmbedder records how many times Embed is called.
type countingEmbedder struct {
	next  driven.Embedder
	calls atomic.Int32
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.next.Embed(ctx, texts)
}

func (c *countingEmbedder) Dimensions() int { return c.next.Dimensions() }

// flakyDocs fails Insert with a fixed error.
type flakyDocs struct {
	driven.DocumentStore
	insertErr error
}

func (f *flakyDocs) Insert(ctx context.Context, filename, indexPath string, chunks []string) (*domain.Document, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.DocumentStore.Insert(ctx, filename, indexPath, chunks)
}

// countingIndexes records loads against an IndexStore.
type countingIndexes struct {
	driven.IndexStore
	mu      sync.Mutex
	loads   int
	deletes []string
}

func (c *countingIndexes) Load(ctx context.Context, path string) (driven.VectorIndex, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.IndexStore.Load(ctx, path)
}

func (c *countingIndexes) Delete(ctx context.Context, path string) error {
	c.mu.Lock()
	c.deletes = append(c.deletes, path)
	c.mu.Unlock()
	return c.IndexStore.Delete(ctx, path)
}

// fixture wires the real components over temp storage.
type fixture struct {
	blobs    *blobfs.Store
	indexes  *countingIndexes
	docs     *memory.DocumentStore
	embedder *countingEmbedder
	ingest   *IngestService
	search   *SearchService
	document *DocumentService
}

func newFixture(t *testing.T, window, overlap int) *fixture {
	t.Helper()

	blobs, err := blobfs.New(t.TempDir())
	require.NoError(t, err)

	c, err := chunker.New(chunker.WithWindow(window), chunker.WithOverlap(overlap))
	require.NoError(t, err)

	engine := embedding.New(func(context.Context) (driven.EmbeddingService, error) {
		return local.NewEmbeddingService(local.Config{Dimensions: 64})
	}, embedding.WithBatchSize(2))
	t.Cleanup(func() { _ = engine.Close() })

	f := &fixture{
		blobs:    blobs,
		indexes:  &countingIndexes{IndexStore: flat.NewStore(blobs)},
		docs:     memory.NewDocumentStore(),
		embedder: &countingEmbedder{next: engine},
	}
	f.ingest = NewIngestService(c, f.embedder, f.indexes, f.docs)
	f.search = NewSearchService(f.embedder, f.indexes, f.docs, 0, 0)
	f.document = NewDocumentService(f.docs, f.indexes)
	return f
}

func (f *fixture) blobExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := f.blobs.Get(context.Background(), path)
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

// blobCount returns the number of published index blobs.
func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.blobs.Root())
	require.NoError(t, err)
	var n int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".idx") {
			n++
		}
	}
	return n
}

// words returns "w0 w1 ... w(n-1)".
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(parts, " ")
}

package services

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// Ensure IndexCache implements the interface.
var _ driven.IndexStore = (*IndexCache)(nil)

// IndexCache keeps recently loaded indexes in memory in front of an
// IndexStore. Concurrent loads of one path share a single read. Save and
// Delete evict the path so a re-ingested document is never served stale.
type IndexCache struct {
	next  driven.IndexStore
	cache *lru.Cache[string, driven.VectorIndex]
	group singleflight.Group
}

// NewIndexCache wraps next with an LRU of size entries.
func NewIndexCache(next driven.IndexStore, size int) (*IndexCache, error) {
	cache, err := lru.New[string, driven.VectorIndex](size)
	if err != nil {
		return nil, fmt.Errorf("index cache: %w", err)
	}
	return &IndexCache{next: next, cache: cache}, nil
}

// Save publishes the index and evicts any cached copy.
func (c *IndexCache) Save(ctx context.Context, path string, vectors [][]float32) error {
	c.cache.Remove(path)
	return c.next.Save(ctx, path, vectors)
}

// Load returns the cached index or reads it once for all waiting callers.
func (c *IndexCache) Load(ctx context.Context, path string) (driven.VectorIndex, error) {
	if idx, ok := c.cache.Get(path); ok {
		return idx, nil
	}

	v, err, shared := c.group.Do(path, func() (any, error) {
		if idx, ok := c.cache.Get(path); ok {
			return idx, nil
		}
		// One caller's cancellation must not fail the others
		idx, err := c.next.Load(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.cache.Add(path, idx)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("index %s: shared load", path)
	}
	return v.(driven.VectorIndex), nil
}

// Delete removes the blob and evicts it.
func (c *IndexCache) Delete(ctx context.Context, path string) error {
	c.cache.Remove(path)
	c.group.Forget(path)
	return c.next.Delete(ctx, path)
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int {
	return c.cache.Len()
}

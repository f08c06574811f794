// Package app assembles the semdoc services from settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/semdoc/internal/adapters/driven/ai"
	fsblob "github.com/custodia-labs/semdoc/internal/adapters/driven/blob/fs"
	s3blob "github.com/custodia-labs/semdoc/internal/adapters/driven/blob/s3"
	"github.com/custodia-labs/semdoc/internal/adapters/driven/storage/memory"
	redisstore "github.com/custodia-labs/semdoc/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/semdoc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/services"
	"github.com/custodia-labs/semdoc/internal/embedding"
	"github.com/custodia-labs/semdoc/internal/index/flat"
	"github.com/custodia-labs/semdoc/internal/logger"
	"github.com/custodia-labs/semdoc/internal/postprocessors"
)

// App holds the constructed services and the resources backing them.
type App struct {
	Ingest   *services.IngestService
	Search   *services.SearchService
	Document *services.DocumentService
	Staging  *services.StagingService

	closers []func() error
}

// Options override how App obtains its collaborators.
type Options struct {
	// Docs replaces the sqlite document store.
	Docs driven.DocumentStore

	// Blobs replaces the configured blob backend.
	Blobs driven.BlobStore

	// Pending replaces the configured pending-upload backend.
	Pending driven.PendingStore

	// Loader replaces the embedding model loader.
	Loader embedding.Loader
}

// New builds the services described by settings and loads the embedding
// model. Call Close to release resources.
func New(ctx context.Context, settings *domain.AppSettings, opts Options) (_ *App, err error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	logger.Section("Bootstrap")

	docs := opts.Docs
	if docs == nil {
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening document store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		docs = store.DocumentStore()
	}

	blobs := opts.Blobs
	if blobs == nil {
		blobs, err = openBlobs(settings.Index)
		if err != nil {
			return nil, err
		}
	}

	indexes, err := services.NewIndexCache(flat.NewStore(blobs), settings.Index.CacheSize)
	if err != nil {
		return nil, err
	}

	pending := opts.Pending
	if pending == nil {
		pending, err = a.openPending(ctx, settings.Pending)
		if err != nil {
			return nil, err
		}
	}

	chunker, err := postprocessors.Build(settings.Chunking, settings.Chunking.Filters)
	if err != nil {
		return nil, err
	}
	logger.Debug("chunking: %s with %d filters", chunker.Name(), chunker.Len())

	loader := opts.Loader
	if loader == nil {
		loader = ai.Loader(settings.Embedding)
	}
	engine := embedding.New(loader,
		embedding.WithBatchSize(settings.Embedding.BatchSize),
		embedding.WithConcurrency(settings.Embedding.Concurrency),
		embedding.WithDimensions(settings.Embedding.Dimensions),
	)
	a.closers = append(a.closers, engine.Close)
	if err := engine.Load(ctx); err != nil {
		return nil, err
	}

	a.Ingest = services.NewIngestService(chunker, engine, indexes, docs)
	a.Search = services.NewSearchService(engine, indexes, docs, settings.Search.DefaultK, settings.Search.MaxK)
	a.Document = services.NewDocumentService(docs, indexes)
	a.Staging = services.NewStagingService(pending, a.Ingest)

	logger.With(
		"provider", settings.Embedding.Provider,
		"index", settings.Index.Backend,
		"pending", settings.Pending.Backend,
	).Debug("services ready")

	return a, nil
}

func openBlobs(cfg domain.IndexSettings) (driven.BlobStore, error) {
	switch cfg.Backend {
	case domain.BlobBackendS3:
		client := s3blob.Connect(s3blob.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		logger.Debug("index blobs in s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
		return s3blob.New(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		store, err := fsblob.New(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening index directory: %w", err)
		}
		logger.Debug("index blobs in %s", filepath.Clean(cfg.Dir))
		return store, nil
	}
}

func (a *App) openPending(ctx context.Context, cfg domain.PendingSettings) (driven.PendingStore, error) {
	switch cfg.Backend {
	case domain.PendingBackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Options{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return redisstore.NewPendingStore(client, "", cfg.TTL), nil
	default:
		return memory.NewPendingStore(cfg.TTL), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

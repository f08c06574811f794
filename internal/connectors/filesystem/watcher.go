// Package filesystem ingests text files dropped into a watched directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is ingested.
const DefaultDebounce = 250 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("filesystem: watcher closed")

// Result reports the outcome of ingesting one file.
type Result struct {
	Path     string
	Document *domain.Document
	Err      error
}

// Extractor converts file contents into document text.
type Extractor interface {
	Supports(filename string) bool
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions sets the accepted file extensions (with leading dot).
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.extensions[strings.ToLower(e)] = true
		}
	}
}

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExisting makes Run ingest files already present in the directory.
func WithExisting(enabled bool) Option {
	return func(w *Watcher) { w.existing = enabled }
}

// WithExtractor converts supported files before ingestion. Other accepted
// files are ingested as raw text.
func WithExtractor(e Extractor) Option {
	return func(w *Watcher) { w.extractor = e }
}

// WithResults registers a callback invoked after each ingestion attempt.
func WithResults(fn func(Result)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// Watcher ingests new text files from a single directory.
// Files are stored under their base name, so a file whose name is already
// stored is skipped.
type Watcher struct {
	root       string
	ingest     driving.IngestService
	extensions map[string]bool
	debounce   time.Duration
	existing   bool
	extractor  Extractor
	onResult   func(Result)

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for root, which may be a path or file:// URI.
func NewWatcher(root string, ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		root:       ResolvePath(root),
		ingest:     ingest,
		extensions: map[string]bool{".txt": true},
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Run watches the directory until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	logger.Info("watching %s", w.root)

	if w.existing {
		if err := w.ingestExisting(ctx); err != nil {
			return err
		}
	}

	ready := make(chan string)
	pending := newDebouncer(w.debounce, func(path string) {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			pending.touch(path)

		case path := <-ready:
			pending.done(path)
			w.ingestFile(ctx, path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Close stops a running watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

// handleFsEvent returns the path to ingest for a create or write of an
// accepted, visible, regular file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !w.accepts(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(base))]
}

func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.root, err)
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil
		}
		if e.Type().IsRegular() && w.accepts(e.Name()) {
			w.ingestFile(ctx, filepath.Join(w.root, e.Name()))
		}
	}
	return nil
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	log := logger.With("file", path)
	res := Result{Path: path}

	text, err := w.readText(ctx, path)
	if err != nil {
		res.Err = err
	} else {
		res.Document, res.Err = w.ingest.Ingest(ctx, text, filepath.Base(path))
	}

	switch {
	case res.Err == nil:
		log.With("chunks", res.Document.ChunkCount).Info("ingested")
	case errors.Is(res.Err, domain.ErrAlreadyExists):
		log.Debug("already stored, skipping")
	case errors.Is(res.Err, domain.ErrNoContent):
		log.Debug("no text, skipping")
	default:
		log.Error("ingest failed: %v", res.Err)
	}

	if w.onResult != nil {
		w.onResult(res)
	}
}

func (w *Watcher) readText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if w.extractor == nil || !w.extractor.Supports(path) {
		return string(data), nil
	}
	return w.extractor.Extract(ctx, path, data)
}

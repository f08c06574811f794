package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// recordingIngest stores documents by filename and rejects duplicates.
type recordingIngest struct {
	mu    sync.Mutex
	texts map[string]string
}

func newRecordingIngest() *recordingIngest {
	return &recordingIngest{texts: make(map[string]string)}
}

func (r *recordingIngest) Ingest(_ context.Context, rawText, sourceFilename string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.texts[sourceFilename]; ok {
		return nil, domain.ErrAlreadyExists
	}
	r.texts[sourceFilename] = rawText
	return &domain.Document{Filename: sourceFilename, ChunkCount: 1}, nil
}

func (r *recordingIngest) get(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, ok := r.texts[name]
	return text, ok
}

// startWatcher runs w in the background and returns its result stream.
func startWatcher(t *testing.T, dir string, ingest *recordingIngest, opts ...Option) (chan Result, context.CancelFunc, chan error) {
	t.Helper()
	results := make(chan Result, 16)
	opts = append([]Option{
		WithDebounce(20 * time.Millisecond),
		WithResults(func(r Result) { results <- r }),
	}, opts...)
	w := NewWatcher(dir, ingest, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
	return results, cancel, done
}

func waitResult(t *testing.T, results chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for ingest")
		return Result{}
	}
}

func TestWatcher_IngestsNewFile(t *testing.T) {
	dir := t.TempDir()
	ingest := newRecordingIngest()
	results, _, _ := startWatcher(t, dir, ingest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("A B C"), 0o644))

	r := waitResult(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, "notes.txt", r.Document.Filename)

	text, ok := ingest.get("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "A B C", text)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := newRecordingIngest()
	results, _, _ := startWatcher(t, dir, ingest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("y"), 0o644))

	r := waitResult(t, results)
	assert.Equal(t, filepath.Join(dir, "real.txt"), r.Path)

	timeout := time.After(150 * time.Millisecond)
	for {
		select {
		case extra := <-results:
			assert.Equal(t, r.Path, extra.Path, "unexpected ingest")
		case <-timeout:
			return
		}
	}
}

func TestWatcher_IngestsExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("old text"), 0o644))

	ingest := newRecordingIngest()
	results, _, _ := startWatcher(t, dir, ingest, WithExisting(true))

	r := waitResult(t, results)
	require.NoError(t, r.Err)
	text, _ := ingest.get("old.txt")
	assert.Equal(t, "old text", text)
}

type prefixExtractor struct{ ext string }

func (e prefixExtractor) Supports(filename string) bool {
	return filepath.Ext(filename) == e.ext
}

func (e prefixExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	return "extracted: " + string(data), nil
}

func TestWatcher_UsesExtractor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("B"), 0o644))

	ingest := newRecordingIngest()
	results, _, _ := startWatcher(t, dir, ingest,
		WithExisting(true),
		WithExtensions(".md", ".txt"),
		WithExtractor(prefixExtractor{ext: ".md"}),
	)

	require.NoError(t, waitResult(t, results).Err)
	require.NoError(t, waitResult(t, results).Err)

	text, _ := ingest.get("a.md")
	assert.Equal(t, "extracted: # A", text)
	text, _ = ingest.get("b.txt")
	assert.Equal(t, "B", text)
}

func TestWatcher_DuplicateReported(t *testing.T) {
	dir := t.TempDir()
	ingest := newRecordingIngest()
	_, err := ingest.Ingest(context.Background(), "first", "dup.txt")
	require.NoError(t, err)

	results, _, _ := startWatcher(t, dir, ingest)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.txt"), []byte("second"), 0o644))

	r := waitResult(t, results)
	assert.ErrorIs(t, r.Err, domain.ErrAlreadyExists)
	text, _ := ingest.get("dup.txt")
	assert.Equal(t, "first", text)
}

func TestWatcher_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	ingest := newRecordingIngest()
	results, _, _ := startWatcher(t, dir, ingest, WithExtensions(".MD"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("y"), 0o644))

	r := waitResult(t, results)
	assert.Equal(t, filepath.Join(dir, "readme.md"), r.Path)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	_, cancel, done := startWatcher(t, dir, newRecordingIngest())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_Close(t *testing.T) {
	w := NewWatcher(t.TempDir(), newRecordingIngest())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Run(context.Background()), ErrWatcherClosed)
}

func TestWatcher_BadRoot(t *testing.T) {
	w := NewWatcher("/non/existent/path", newRecordingIngest())
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root path error")

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	err = NewWatcher(file, newRecordingIngest()).Run(context.Background())
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWatcher_Root(t *testing.T) {
	w := NewWatcher("file:///srv/inbox/", newRecordingIngest())
	assert.Equal(t, "/srv/inbox", w.Root())
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))
	subdir := filepath.Join(dir, "dir.txt")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	w := NewWatcher(dir, newRecordingIngest())

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{name: "create", path: file, op: fsnotify.Create, want: true},
		{name: "write", path: file, op: fsnotify.Write, want: true},
		{name: "write and chmod", path: file, op: fsnotify.Write | fsnotify.Chmod, want: true},
		{name: "chmod only", path: file, op: fsnotify.Chmod},
		{name: "remove", path: filepath.Join(dir, "gone.txt"), op: fsnotify.Remove},
		{name: "rename", path: file, op: fsnotify.Rename},
		{name: "directory", path: subdir, op: fsnotify.Create},
		{name: "hidden", path: filepath.Join(dir, ".test.txt"), op: fsnotify.Create},
		{name: "wrong extension", path: filepath.Join(dir, "a.pdf"), op: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

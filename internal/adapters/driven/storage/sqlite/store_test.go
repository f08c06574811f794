package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "metadata.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	assert.Equal(t, 1, countRows(t, store, "schema_migrations"))

	for _, table := range []string{"documents", "text_chunks"} {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	_, err = first.DocumentStore().Insert(context.Background(), "a.txt", "a.idx", []string{"x"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 1, countRows(t, second, "schema_migrations"))
	assert.Equal(t, 1, countRows(t, second, "documents"))
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var fkEnabled int
	err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled, "foreign keys should be enabled")
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== DocumentStore Tests ====================

func TestDocumentStore_InsertAndFind(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc, err := docs.Insert(ctx, "letters.txt", "letters-00000000000000aa.idx", []string{"A B C D", "D E F G", "G H"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 3, doc.ChunkCount)
	assert.False(t, doc.UploadedAt.IsZero())

	found, err := docs.FindByFilename(ctx, "letters.txt")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)
	assert.Equal(t, "letters-00000000000000aa.idx", found.IndexPath)
	assert.Equal(t, 3, found.ChunkCount)
	assert.True(t, doc.UploadedAt.Equal(found.UploadedAt))
}

func TestDocumentStore_FindByFilename_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().FindByFilename(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_InsertDuplicateFilename(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	_, err := docs.Insert(ctx, "dup.txt", "dup-1.idx", []string{"one", "two"})
	require.NoError(t, err)

	_, err = docs.Insert(ctx, "dup.txt", "dup-2.idx", []string{"three"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// The failed insert must leave nothing behind
	assert.Equal(t, 1, countRows(t, store, "documents"))
	assert.Equal(t, 2, countRows(t, store, "text_chunks"))

	found, err := docs.FindByFilename(ctx, "dup.txt")
	require.NoError(t, err)
	assert.Equal(t, "dup-1.idx", found.IndexPath)
}

func TestDocumentStore_ConcurrentInsertSameFilename(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = docs.Insert(ctx, "race.txt", fmt.Sprintf("race-%d.idx", i), []string{"a", "b"})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, countRows(t, store, "text_chunks"))
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc, err := docs.Insert(ctx, "letters.txt", "letters.idx", []string{"A B C D", "D E F G", "G H"})
	require.NoError(t, err)

	chunks, err := docs.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Ordinal)
		assert.Equal(t, doc.ID, c.DocumentID)
	}
	assert.Equal(t, "G H", chunks[2].Text)

	chunk, err := docs.ChunkByOrdinal(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "D E F G", chunk.Text)

	_, err = docs.ChunkByOrdinal(ctx, doc.ID, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_List(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	list, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"first.txt", "second.txt", "third.txt"} {
		_, err := docs.Insert(ctx, name, name+".idx", []string{name})
		require.NoError(t, err)
	}

	list, err = docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].UploadedAt.After(list[i-1].UploadedAt), "list must be newest first")
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc, err := docs.Insert(ctx, "gone.txt", "gone.idx", []string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, docs.Delete(ctx, "gone.txt"))

	_, err = docs.FindByFilename(ctx, "gone.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := docs.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks, "chunks should cascade")
	assert.Equal(t, 0, countRows(t, store, "text_chunks"))

	assert.ErrorIs(t, docs.Delete(ctx, "gone.txt"), domain.ErrNotFound)

	// The filename can be reused after deletion
	_, err = docs.Insert(ctx, "gone.txt", "gone-2.idx", []string{"d"})
	assert.NoError(t, err)
}

func TestDocumentStore_InsertCancelledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.DocumentStore().Insert(ctx, "c.txt", "c.idx", []string{"a"})
	assert.Error(t, err)
	assert.Equal(t, 0, countRows(t, store, "documents"))
}

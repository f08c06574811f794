package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_InsertAndFind(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc, err := store.Insert(ctx, "letters.txt", "letters.idx", []string{"A B C D", "D E F G", "G H"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 3, doc.ChunkCount)

	found, err := store.FindByFilename(ctx, "letters.txt")
	require.NoError(t, err)
	assert.Equal(t, *doc, *found)

	_, err = store.FindByFilename(ctx, "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_InsertDuplicate(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	first, err := store.Insert(ctx, "dup.txt", "dup-1.idx", []string{"a", "b"})
	require.NoError(t, err)

	_, err = store.Insert(ctx, "dup.txt", "dup-2.idx", []string{"c"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	chunks, err := store.Chunks(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
	assert.Len(t, store.chunks, 1)
}

func TestDocumentStore_ConcurrentInsert(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, "race.txt", "race.idx", []string{"x"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc, err := store.Insert(ctx, "letters.txt", "letters.idx", []string{"A B C D", "D E F G", "G H"})
	require.NoError(t, err)

	chunk, err := store.ChunkByOrdinal(ctx, doc.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "G H", chunk.Text)
	assert.Equal(t, 2, chunk.Ordinal)

	_, err = store.ChunkByOrdinal(ctx, doc.ID, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.ChunkByOrdinal(ctx, doc.ID, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Returned slices are copies
	chunks[0].Text = "mutated"
	again, err := store.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "A B C D", again[0].Text)

	none, err := store.Chunks(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStore_ListAndDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := store.Insert(ctx, name, name+".idx", []string{name})
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[1].UploadedAt.After(list[0].UploadedAt))

	require.NoError(t, store.Delete(ctx, "a.txt"))
	assert.ErrorIs(t, store.Delete(ctx, "a.txt"), domain.ErrNotFound)

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b.txt", list[0].Filename)
	assert.Len(t, store.chunks, 1)
}

func TestDocumentStore_InsertCancelled(t *testing.T) {
	store := NewDocumentStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Insert(ctx, "c.txt", "c.idx", []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.documents)
}

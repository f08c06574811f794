package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "indexes"))
	require.NoError(t, err)
	return s
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "doc.idx", []byte("v1")))

	data, err := s.Get(ctx, "doc.idx")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "doc.idx", []byte("v1")))
	require.NoError(t, s.Put(ctx, "doc.idx", []byte("version two")))

	data, err := s.Get(ctx, "doc.idx")
	require.NoError(t, err)
	assert.Equal(t, []byte("version two"), data)
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "a.idx", []byte("a")))
	require.NoError(t, s.Put(ctx, "b.idx", []byte("b")))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.idx", "b.idx"}, names)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "missing.idx")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "doc.idx", []byte("x")))
	require.NoError(t, s.Delete(ctx, "doc.idx"))
	require.NoError(t, s.Delete(ctx, "doc.idx"))

	_, err := s.Get(ctx, "doc.idx")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, key := range []string{"", "..", "../x.idx", "a/b.idx"} {
		err := s.Put(ctx, key, []byte("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, key)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestStore(t).Put(ctx, "doc.idx", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

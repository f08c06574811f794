package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ContentFunc func(ctx context.Context, filename string) ([]domain.TextChunk, error)
}

func (m *MockDocumentService) List(context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) Get(context.Context, string) (*domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) Content(ctx context.Context, filename string) ([]domain.TextChunk, error) {
	if m.ContentFunc != nil {
		return m.ContentFunc(ctx, filename)
	}
	return nil, nil
}

func (m *MockDocumentService) Delete(context.Context, string) error {
	return nil
}

func makeChunks(n int) []domain.TextChunk {
	chunks := make([]domain.TextChunk, n)
	for i := range chunks {
		chunks[i] = domain.TextChunk{
			ID:         fmt.Sprintf("c%d", i),
			DocumentID: "d1",
			Ordinal:    i,
			Text:       fmt.Sprintf("text of chunk %d", i),
		}
	}
	return chunks
}

func openView(t *testing.T, chunks []domain.TextChunk, ordinal int) *View {
	t.Helper()
	svc := &MockDocumentService{
		ContentFunc: func(context.Context, string) ([]domain.TextChunk, error) {
			return chunks, nil
		},
	}
	view := NewView(styles.DefaultStyles(), svc)
	cmd := view.SetDocument("notes.txt", ordinal)
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())
	return view
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.Empty(t, view.Filename())
	assert.Nil(t, view.Init())
	assert.Contains(t, view.View(), "Document Content")
}

func TestView_SetDocument_Loads(t *testing.T) {
	var got string
	svc := &MockDocumentService{
		ContentFunc: func(_ context.Context, filename string) ([]domain.TextChunk, error) {
			got = filename
			return makeChunks(2), nil
		},
	}
	view := NewView(styles.DefaultStyles(), svc)

	cmd := view.SetDocument("notes.txt", 1)
	assert.Contains(t, view.View(), "Loading content...")

	msg, ok := cmd().(messages.DocumentContentLoaded)
	require.True(t, ok)
	assert.Equal(t, "notes.txt", got)
	assert.Equal(t, "notes.txt", msg.Filename)
	assert.Len(t, msg.Chunks, 2)

	view, _ = view.Update(msg)
	assert.Len(t, view.Chunks(), 2)
	assert.Equal(t, 1, view.Focus())
	assert.NoError(t, view.Err())
}

func TestView_SetDocument_NoService(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	msg, ok := view.SetDocument("notes.txt", 0)().(messages.DocumentContentLoaded)
	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestView_Update_LoadError(t *testing.T) {
	svc := &MockDocumentService{
		ContentFunc: func(context.Context, string) ([]domain.TextChunk, error) {
			return nil, domain.ErrNotFound
		},
	}
	view := NewView(styles.DefaultStyles(), svc)
	view, _ = view.Update(view.SetDocument("gone.txt", 0)())

	assert.ErrorIs(t, view.Err(), domain.ErrNotFound)
	assert.Contains(t, view.View(), "Error:")
}

func TestView_Update_IgnoresStaleContent(t *testing.T) {
	view := openView(t, makeChunks(2), 0)

	view, _ = view.Update(messages.DocumentContentLoaded{Filename: "other.txt", Chunks: makeChunks(9)})
	assert.Len(t, view.Chunks(), 2)
}

func TestView_View_RendersChunkHeaders(t *testing.T) {
	view := openView(t, makeChunks(2), 0)
	out := view.View()

	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "chunk 0")
	assert.Contains(t, out, "chunk 1")
	assert.Contains(t, out, "text of chunk 1")
}

func TestView_View_Empty(t *testing.T) {
	view := openView(t, nil, 0)
	assert.Contains(t, view.View(), "(No content)")
}

func TestView_ScrollsToFocusedChunk(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{
		ContentFunc: func(context.Context, string) ([]domain.TextChunk, error) {
			return makeChunks(20), nil
		},
	})
	view.SetDimensions(80, 12)
	view, _ = view.Update(view.SetDocument("notes.txt", 5)())

	// Each chunk renders as header, one text line, blank separator.
	assert.Equal(t, 15, view.ScrollOffset())
	assert.Contains(t, view.View(), "chunk 5")
}

func TestView_NextPrevChunk(t *testing.T) {
	view := openView(t, makeChunks(3), 0)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, 1, view.Focus())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, 2, view.Focus())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Equal(t, 1, view.Focus())
}

func TestView_Scrolling(t *testing.T) {
	view := openView(t, makeChunks(20), 0)
	view.SetDimensions(80, 12)
	maxOffset := view.maxScrollOffset()
	require.Positive(t, maxOffset)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.ScrollOffset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.ScrollOffset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, maxOffset, view.ScrollOffset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, maxOffset-view.visibleLines(), view.ScrollOffset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, view.ScrollOffset())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, view.visibleLines(), view.ScrollOffset())
}

func TestView_Escape(t *testing.T) {
	view := openView(t, makeChunks(1), 0)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())

	view.SetBack(messages.ViewDocuments)
	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view, _ = view.Update(messages.ErrorOccurred{Err: errors.New("boom")})
	assert.EqualError(t, view.Err(), "boom")
}

func TestWrap(t *testing.T) {
	lines := wrap("alpha beta gamma delta", 11)
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, lines)

	lines = wrap("one\n\ntwo", 20)
	assert.Equal(t, []string{"one", "", "two"}, lines)

	long := strings.Repeat("x", 30)
	assert.Equal(t, []string{long}, wrap(long, 10))
}

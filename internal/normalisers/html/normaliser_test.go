package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, "html", n.Name())
	assert.ElementsMatch(t, []string{".html", ".htm", ".xhtml"}, n.Extensions())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraphs become lines",
			input:    "<p>First paragraph.</p><p>Second paragraph.</p>",
			expected: "First paragraph.\nSecond paragraph.",
		},
		{
			name:     "scripts and styles are removed",
			input:    "<style>body{color:red}</style><p>Visible</p><script>alert(1)</script>",
			expected: "Visible",
		},
		{
			name:     "entities are decoded",
			input:    "<p>Fish &amp; chips &lt;3</p>",
			expected: "Fish & chips <3",
		},
		{
			name:     "comments are removed",
			input:    "<div>Keep<!-- drop --> this</div>",
			expected: "Keep this",
		},
		{
			name:     "breaks become newlines",
			input:    "line one<br/>line two<hr>line three",
			expected: "line one\nline two\nline three",
		},
		{
			name:     "title is prepended",
			input:    "<html><head><title>Quarterly  Report</title></head><body><h1>Summary</h1><p>Revenue grew.</p></body></html>",
			expected: "Quarterly Report\nSummary\nRevenue grew.",
		},
		{
			name:     "title only",
			input:    "<html><head><title>Empty</title></head><body></body></html>",
			expected: "Empty",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalise(context.Background(), []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalise_TitleNotRepeated(t *testing.T) {
	input := "<title>Notes</title><body><p>Notes</p><p>More text</p></body>"

	got, err := New().Normalise(context.Background(), []byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Notes\nMore text", got)
}

func TestNormalise_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Normalise(ctx, []byte("<p>x</p>"))
	assert.ErrorIs(t, err, context.Canceled)
}

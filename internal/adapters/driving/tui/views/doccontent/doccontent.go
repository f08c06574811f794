// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// line is one rendered row of the content view.
type line struct {
	text    string
	header  bool
	ordinal int
}

// View shows a document chunk by chunk with one chunk highlighted.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	filename     string
	focus        int
	back         messages.ViewType
	chunks       []domain.TextChunk
	lines        []line
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		back:            messages.ViewSearch,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetBack sets the view returned to on esc.
func (v *View) SetBack(view messages.ViewType) {
	v.back = view
}

// SetDocument loads filename and focuses the chunk at ordinal.
func (v *View) SetDocument(filename string, ordinal int) tea.Cmd {
	v.filename = filename
	v.focus = ordinal
	v.chunks = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentContentLoaded{Filename: filename, Err: fmt.Errorf("document service not available")}
		}
		chunks, err := svc.Content(ctx, filename)
		return messages.DocumentContentLoaded{Filename: filename, Chunks: chunks, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		// Stale response for a previously opened document.
		if msg.Filename != v.filename {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.chunks = msg.Chunks
			v.layout()
			v.scrollToFocus()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "n":
		if v.focus < len(v.chunks)-1 {
			v.focus++
			v.scrollToFocus()
		}
	case "p":
		if v.focus > 0 {
			v.focus--
			v.scrollToFocus()
		}
	case "esc":
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// layout wraps every chunk to the view width under its header.
func (v *View) layout() {
	v.lines = v.lines[:0]
	width := max(v.width-4, 20)

	for _, c := range v.chunks {
		v.lines = append(v.lines, line{
			text:    fmt.Sprintf("── chunk %d ──", c.Ordinal),
			header:  true,
			ordinal: c.Ordinal,
		})
		for _, wrapped := range wrap(c.Text, width) {
			v.lines = append(v.lines, line{text: wrapped, ordinal: c.Ordinal})
		}
		v.lines = append(v.lines, line{ordinal: -1})
	}
}

// wrap breaks text on word boundaries at width runes.
func wrap(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		curLen := 0
		for _, w := range words {
			wl := len([]rune(w))
			if curLen > 0 && curLen+1+wl > width {
				out = append(out, cur.String())
				cur.Reset()
				curLen = 0
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(w)
			curLen += wl
		}
		out = append(out, cur.String())
	}
	return out
}

func (v *View) scrollToFocus() {
	for i, l := range v.lines {
		if l.header && l.ordinal == v.focus {
			v.scrollOffset = min(i, v.maxScrollOffset())
			return
		}
	}
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Content"
	if v.filename != "" {
		title = v.filename
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.renderLine(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.lines)),
				len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [n/p] next/prev chunk  [g/G] top/bottom  [esc] back"))
	return b.String()
}

func (v *View) renderLine(l line) string {
	switch {
	case l.header:
		return v.styles.ChunkHeader.Render(l.text)
	case l.ordinal == v.focus:
		return v.styles.Match.Render(l.text)
	default:
		return v.styles.Normal.Render(l.text)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if len(v.chunks) > 0 {
		v.layout()
		v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
	}
}

// Filename returns the document being shown.
func (v *View) Filename() string {
	return v.filename
}

// Focus returns the highlighted chunk ordinal.
func (v *View) Focus() int {
	return v.focus
}

// Chunks returns the loaded chunks.
func (v *View) Chunks() []domain.TextChunk {
	return v.chunks
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

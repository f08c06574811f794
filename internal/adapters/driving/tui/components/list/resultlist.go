// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// HitList displays search hits in a navigable list, closest first.
type HitList struct {
	hits     []domain.SearchHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHitList creates a new hit list component.
func NewHitList(s *styles.Styles) *HitList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HitList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *HitList) Update(msg tea.Msg) (*HitList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the hit list.
func (l *HitList) View() string {
	if len(l.hits) == 0 {
		return l.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(l.hits)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Closest chunks (%d)", len(l.hits))), "")

	// Each hit renders as two lines.
	visible := max((l.height-2)/2, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.hits))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderHit(i, &l.hits[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *HitList) renderHit(index int, hit *domain.SearchHit) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("%schunk #%d", indicator, hit.Ordinal)
	distance := fmt.Sprintf("d=%.4f", hit.Distance)

	var head string
	if index == l.selected {
		head = l.styles.Selected.Render(label) + "  " + l.styles.Distance.Render(distance)
	} else {
		head = l.styles.Normal.Render(label) + "  " + l.styles.Distance.Render(distance)
	}

	return head + "\n" + l.styles.Muted.Render("    "+Truncate(hit.ChunkText, max(l.width-6, 20)))
}

// Truncate shortens s to at most n runes, ending with "..." when cut.
// Newlines are flattened to spaces.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// SetHits replaces the hits and resets the selection.
func (l *HitList) SetHits(hits []domain.SearchHit) {
	l.hits = hits
	l.selected = 0
}

// Hits returns the current hits.
func (l *HitList) Hits() []domain.SearchHit {
	return l.hits
}

// Selected returns the index of the selected hit.
func (l *HitList) Selected() int {
	return l.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (l *HitList) SelectedHit() *domain.SearchHit {
	if l.selected < 0 || l.selected >= len(l.hits) {
		return nil
	}
	return &l.hits[l.selected]
}

// MoveUp moves selection up.
func (l *HitList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *HitList) MoveDown() {
	if l.selected < len(l.hits)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *HitList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of hits.
func (l *HitList) Count() int {
	return len(l.hits)
}

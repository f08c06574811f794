// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
)

// State represents the current search state for display.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Bar displays the active document, search state and key hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	document string
	k        int
	hits     int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	var parts []string
	if b.document != "" {
		parts = append(parts, b.styles.Subtitle.Render(b.document))
	}
	if b.k > 0 {
		parts = append(parts, b.styles.Muted.Render(fmt.Sprintf("k=%d", b.k)))
	}

	switch b.state {
	case StateSearching:
		parts = append(parts, b.styles.Muted.Render("Searching..."))
	case StateError:
		msg := "Error"
		if b.message != "" {
			msg = "Error: " + b.message
		}
		parts = append(parts, b.styles.Error.Render(msg))
	case StateResults:
		parts = append(parts, b.styles.Normal.Render(fmt.Sprintf("%d hits", b.hits)))
	case StateReady:
		if b.message != "" {
			parts = append(parts, b.styles.Normal.Render(b.message))
		} else {
			parts = append(parts, b.styles.Muted.Render("Ready"))
		}
	}
	return strings.Join(parts, "  ")
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	if b.state == StateResults && b.hits > 0 {
		bindings = b.keymap.ResultsHelp()
	}
	return b.styles.Muted.Render(formatHints(bindings))
}

func formatHints(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return strings.Join(hints, " | ")
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetDocument sets the filename shown on the left.
func (b *Bar) SetDocument(filename string) {
	b.document = filename
}

// SetK sets the neighbour count shown on the left.
func (b *Bar) SetK(k int) {
	b.k = k
}

// SetHitCount sets the number of hits of the last search.
func (b *Bar) SetHitCount(n int) {
	b.hits = n
}

// HitCount returns the number of hits of the last search.
func (b *Bar) HitCount() int {
	return b.hits
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear resets the status bar to its ready state. The document is kept.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.hits = 0
}

// Package search provides the per-document search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// MaxK bounds the neighbour count reachable with the + key.
const MaxK = 50

// View is the search view with input, hit list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.HitList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	document   string
	k          int
	lastQuery  string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewHitList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		k:             domain.DefaultSearchK,
		width:         80,
		height:        24,
		focusInput:    true,
	}
	v.statusbar.SetK(v.k)
	return v
}

// WithContext sets the context used for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetDocument targets searches at filename and resets the view.
func (v *View) SetDocument(filename string) {
	v.document = filename
	v.statusbar.SetDocument(filename)
	v.input.SetPlaceholder("Ask something about " + filename + "...")
	v.Reset()
}

// Document returns the targeted filename.
func (v *View) Document() string {
	return v.document
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit(v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Results mode.
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Open):
		if hit := v.list.SelectedHit(); hit != nil {
			filename, ordinal := v.document, hit.Ordinal
			return v, func() tea.Msg {
				return messages.ChunkOpened{Filename: filename, Ordinal: ordinal}
			}
		}
	case keymap.Matches(key, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.MoreResults):
		if v.k < MaxK {
			v.setK(v.k + 1)
			return v, v.submit(v.lastQuery)
		}
	case keymap.Matches(key, v.keymap.FewerResults):
		if v.k > 1 {
			v.setK(v.k - 1)
			return v, v.submit(v.lastQuery)
		}
	case keymap.Matches(key, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// submit starts a search for query, or does nothing for an empty query.
func (v *View) submit(query string) tea.Cmd {
	if query == "" {
		return nil
	}
	v.lastQuery = query
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(query, v.k)
}

// performSearch returns a command running the search off the UI loop.
func (v *View) performSearch(query string, k int) tea.Cmd {
	document, svc, ctx := v.document, v.searchService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		if document == "" {
			return messages.ErrorOccurred{Err: ErrNoDocument}
		}
		hits, err := svc.Search(ctx, document, query, k)
		return messages.SearchCompleted{Query: query, Hits: hits, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetHits(msg.Hits)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetHitCount(len(msg.Hits))
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) setK(k int) {
	v.k = k
	v.statusbar.SetK(k)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("semdoc"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// K returns the neighbour count used for searches.
func (v *View) K() int {
	return v.k
}

// Hits returns the current hits.
func (v *View) Hits() []domain.SearchHit {
	return v.list.Hits()
}

// SelectedIndex returns the index of the selected hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode with no hits.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetHits(nil)
	v.lastQuery = ""
	v.err = nil
	v.statusbar.Clear()
}

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// documentsView lists stored documents.
	documentsView *documents.View

	// searchView queries the selected document.
	searchView *search.View

	// docContentView shows a document chunk by chunk.
	docContentView *doccontent.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		documentsView:  documents.NewView(s, ports.Document),
		searchView:     search.NewView(s, keymap.DefaultKeyMap(), ports.Search),
		docContentView: doccontent.NewView(s, ports.Document),
		currentView:    messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// WithDocument starts the app in the search view for filename.
func (a *App) WithDocument(filename string) *App {
	if filename != "" {
		a.searchView.SetDocument(filename)
		a.currentView = messages.ViewSearch
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("semdoc"),
		a.documentsView.Init(),
	}
	if a.currentView == messages.ViewSearch {
		cmds = append(cmds, a.searchView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "?" {
				a.currentView = a.previousView
			}
		}
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			return a, a.documentsView.Reload()
		}
		return a, nil

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.searchView.SetDocument(msg.Document.Filename)
		a.currentView = messages.ViewSearch
		return a, a.searchView.Init()

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ChunkOpened:
		back := a.currentView
		if back != messages.ViewSearch {
			back = messages.ViewDocuments
		}
		a.docContentView.SetBack(back)
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(msg.Filename, msg.Ordinal)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
		case messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blinks and other ticks belong to the search input.
	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.documentsView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Documents:
  j/k, ↑/↓    Navigate documents
  enter       Actions (search, show content, delete)
  r           Reload
  q           Quit

Search:
  (type)      Enter a question
  enter       Submit search
  esc         Back to documents

Results:
  j/k, ↑/↓    Navigate hits
  enter       Open chunk in document
  n           New search
  +/-         More or fewer results
  esc         Back to documents

Content:
  n/p         Next or previous chunk
  g/G         Top or bottom
  esc         Back

ctrl+c quits from anywhere.

` + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Document returns the filename searches are targeted at.
func (a *App) Document() string {
	return a.searchView.Document()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}

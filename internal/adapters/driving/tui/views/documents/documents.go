// Package documents provides the document picker view for the TUI.
package documents

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

// ActionOption represents a document action.
type ActionOption int

const (
	ActionSearch ActionOption = iota
	ActionShowContent
	ActionDelete
	ActionCancel
)

var actionLabels = []string{
	ActionSearch:      "Search",
	ActionShowContent: "Show Content",
	ActionDelete:      "Delete",
	ActionCancel:      "Cancel",
}

// View lists stored documents and lets the user pick one.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documents     []domain.Document
	selected      int
	scrollOffset  int
	width         int
	height        int
	err           error
	loading       bool
	showingMenu   bool
	menuSelected  ActionOption
	confirmDelete bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that reloads the document list.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case v.confirmDelete:
			return v.handleConfirmKey(msg)
		case v.showingMenu:
			return v.handleMenuKey(msg)
		default:
			return v.handleKey(msg)
		}

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			if v.selected >= len(v.documents) {
				v.selected = max(len(v.documents)-1, 0)
			}
			v.adjustScroll()
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Reload()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionSearch
		}
	case "r":
		return v, v.Reload()
	case "?":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case "q", "esc":
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionSearch {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}
	return v, nil
}

func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}
	selected := *doc

	switch v.menuSelected {
	case ActionSearch:
		return v, func() tea.Msg { return messages.DocumentSelected{Document: selected} }
	case ActionShowContent:
		return v, func() tea.Msg { return messages.ChunkOpened{Filename: selected.Filename} }
	case ActionDelete:
		v.confirmDelete = true
	case ActionCancel:
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() != "y" {
		return v, nil
	}
	doc := v.SelectedDocument()
	if doc == nil || v.documentService == nil {
		return v, nil
	}
	filename, svc, ctx := doc.Filename, v.documentService, v.ctx
	return v, func() tea.Msg {
		return messages.DocumentDeleted{Filename: filename, Err: svc.Delete(ctx, filename)}
	}
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents stored. Use `semdoc ingest FILE` to add one."))
	case v.confirmDelete:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Delete %s? [y/N]", v.SelectedDocument().Filename)))
		return b.String()
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
		return b.String()
	default:
		visible := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.documents)),
				len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	nameWidth := max(v.width/2-4, 10)
	name := doc.Filename
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}
	meta := fmt.Sprintf("%4d chunks  %s", doc.ChunkCount, doc.UploadedAt.Local().Format("2006-01-02 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, nameWidth, name)) + "  " + v.styles.Muted.Render(meta)
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, nameWidth, name)) + "  " + v.styles.Muted.Render(meta)
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render("Actions for: " + doc.Filename))
		b.WriteString("\n\n")
	}

	for i, label := range actionLabels {
		if ActionOption(i) == v.menuSelected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// IsConfirmingDelete returns true while the delete prompt is shown.
func (v *View) IsConfirmingDelete() bool {
	return v.confirmDelete
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Package ui is the terminal front end.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/ui/styles"
	"github.com/kim-mac/aiopad/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewNotes View = iota
	ViewEditor
)

type App struct {
	app         *app.App
	svc         views.Services
	currentView View
	noteList    *views.NoteListView
	editor      *views.EditorView
	width       int
	height      int
}

// Creates a new application
func NewApp(a *app.App, svc views.Services) *App {
	th := a.State().Theme
	styles.Apply(th.Variant, th.Mode)
	return &App{
		app:         a,
		svc:         svc,
		currentView: ViewNotes,
		noteList:    views.NewNoteListView(a),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the selected note, e.g. one created from the command line
	if n, ok := a.app.Selected(); ok {
		return a.openNote(n.ID)
	}
	return a.noteList.Init()
}

func (a *App) openNote(id string) tea.Cmd {
	a.currentView = ViewEditor
	a.editor = views.NewEditorView(a.app, a.svc, id)

	// Initialize editor with window size
	return tea.Batch(
		a.editor.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update note list size since it persists
		a.noteList.Update(msg)

	case views.OpenedNote:
		return a, a.openNote(msg.ID)

	case views.BackToNotes:
		a.currentView = ViewNotes
		a.editor = nil
		a.app.Dispatch(app.DeselectNote{})
		a.noteList.Refresh()
		return a, nil

	case views.ThemeChanged:
		th := a.app.State().Theme
		styles.Apply(th.Variant, th.Mode)
		a.noteList.Restyle()
		if a.editor != nil {
			a.editor.Restyle()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewNotes:
		_, cmd = a.noteList.Update(msg)
	case ViewEditor:
		_, cmd = a.editor.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewEditor:
		if a.editor != nil {
			return a.editor.View()
		}
	}
	return a.noteList.View()
}

// Close saves the open editor's fields
func (a *App) Close() {
	if a.editor != nil {
		a.editor.Close()
	}
}

// Package app owns the application state. Every change goes through
// (*App).Dispatch so the TUI and the CLI share one set of rules.
package app

import (
	"context"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kim-mac/aiopad/internal/kv"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/metrics"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/todo"
)

// State is everything the presentation layer renders besides the notes
type State struct {
	// Selected is the id of the open note, empty for none
	Selected string
	Marked   map[string]bool
	NoteView notes.ViewOptions
	TaskView todo.ViewOptions
	Theme    notes.Theme
	Status   string
}

// Result reports the outcome of a command. Message is meant for the user.
type Result struct {
	Changed bool
	Message string
	NoteID  string
}

// Options configures New
type Options struct {
	Store      kv.Store
	Log        *logger.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
	Location   *time.Location
	BcryptCost int
	NewID      func() string
	// DefaultTheme is used until a theme has been saved
	DefaultTheme notes.Theme
}

// App is the single owner of notes and view state
type App struct {
	notes     *notes.Store
	state     State
	kv        kv.Store
	persister *notes.Persister
	log       *logger.Logger
	metrics   *metrics.Metrics
	newID     func() string
	cost      int
	validate  *validator.Validate
	// loadErr is set when stored notes could not be read; nothing is
	// written back in that case
	loadErr error
}

// New loads persisted notes and theme from opts.Store and starts the
// background writer. When the notes cannot be read the app starts empty in
// memory-only mode and StorageErr reports why.
func New(ctx context.Context, opts Options) *App {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Store == nil {
		opts.Store = kv.NewMemory()
	}
	log := opts.Log.WithComponent("app")

	list, loadErr := notes.Load(ctx, opts.Store, log, opts.BcryptCost)
	if loadErr != nil {
		log.WithError(loadErr).Errorw("continuing in memory only, changes will not be saved")
	}

	theme := opts.DefaultTheme
	if saved, err := notes.LoadTheme(ctx, opts.Store); err != nil {
		log.Warnw("failed to read theme", "error", err)
	} else if saved != nil && notes.ValidTheme(*saved) {
		theme = *saved
	}

	now, loc := opts.Now, opts.Location
	a := &App{
		notes: notes.NewStore(list, func() time.Time { return now().In(loc) }),
		state: State{
			Marked:   map[string]bool{},
			TaskView: todo.DefaultViewOptions(),
			NoteView: notes.ViewOptions{Sort: notes.ModifiedDesc},
			Theme:    theme,
		},
		kv:        opts.Store,
		persister: notes.NewPersister(opts.Store, opts.Log, opts.Metrics),
		log:       log,
		metrics:   opts.Metrics,
		newID:     opts.NewID,
		cost:      opts.BcryptCost,
		validate:  validator.New(),
		loadErr:   loadErr,
	}
	if loadErr != nil {
		a.state.Status = MsgMemoryOnly
		return a
	}
	a.notes.OnChange = a.persister.Save
	return a
}

// StorageErr returns the error that put the app in memory-only mode, or nil
func (a *App) StorageErr() error {
	return a.loadErr
}

// Close writes pending changes and stops the background writer
func (a *App) Close(ctx context.Context) error {
	return a.persister.Close(ctx)
}

// Flush waits for pending writes
func (a *App) Flush(ctx context.Context) error {
	return a.persister.Flush(ctx)
}

// State returns a copy of the view state
func (a *App) State() State {
	s := a.state
	s.Marked = make(map[string]bool, len(a.state.Marked))
	for id := range a.state.Marked {
		s.Marked[id] = true
	}
	return s
}

// Notes returns the whole collection in store order
func (a *App) Notes() []models.Note {
	return a.notes.All()
}

// Note returns a note by id
func (a *App) Note(id string) (models.Note, bool) {
	return a.notes.Get(id)
}

// Visible returns the sidebar sections for the current search and sort
func (a *App) Visible() notes.Sections {
	return notes.Split(notes.Derive(a.notes.All(), a.state.NoteView))
}

// Selected returns the open note
func (a *App) Selected() (models.Note, bool) {
	if a.state.Selected == "" {
		return models.Note{}, false
	}
	return a.notes.Get(a.state.Selected)
}

// Tasks returns the derived view of the open note's current task list
func (a *App) Tasks() []models.Task {
	n, ok := a.Selected()
	if !ok {
		return nil
	}
	return todo.Derive(models.CurrentTasks(n.Tasks), a.state.TaskView)
}

// Now returns the app clock reading in the configured location
func (a *App) Now() time.Time {
	return a.notes.Now()
}

// MarkedIDs returns the multi-selected note ids in collection order
func (a *App) MarkedIDs() []string {
	var ids []string
	for _, n := range a.notes.All() {
		if a.state.Marked[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// firstSelectable returns the first note in collection order that may be
// opened, or "" when there is none
func (a *App) firstSelectable() string {
	list := a.notes.All()
	i := slices.IndexFunc(list, func(n models.Note) bool { return !n.IsLocked })
	if i < 0 {
		return ""
	}
	return list[i].ID
}

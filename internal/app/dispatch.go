package app

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/todo"
)

// User-visible messages
const (
	MsgLocked           = "Note is locked"
	MsgPasswordTooShort = "Password must be at least 4 characters long"
	MsgPasswordMismatch = "Passwords do not match"
	MsgWrongPassword    = "Incorrect password"
	MsgUnknownColor     = "Unknown color"
	MsgUnknownTheme     = "Unknown theme"
	MsgNotTodo          = "Not a to-do list"
	MsgLockFailed       = "Could not lock note"
	MsgMemoryOnly       = "Saved notes could not be read, changes will not be saved"
)

// lockRequest is validated before a note is locked
type lockRequest struct {
	Password string `validate:"min=4"`
	Confirm  string `validate:"eqfield=Password"`
}

// Dispatch applies a command. Validation problems come back in
// Result.Message and leave state untouched; unknown ids are ignored.
func (a *App) Dispatch(cmd Command) Result {
	a.metrics.NoteOp(cmd.op())
	res := a.apply(cmd)
	if res.Message != "" || res.Changed {
		a.state.Status = res.Message
	}
	return res
}

func (a *App) apply(cmd Command) Result {
	switch c := cmd.(type) {
	case CreateNote:
		typ := c.Type
		if !typ.Valid() {
			typ = models.NoteTypeNote
		}
		n := notes.New(a.newID(), typ, a.notes.Now())
		a.notes.Add(n)
		a.state.Selected = n.ID
		return Result{Changed: true, NoteID: n.ID}

	case SelectNote:
		return a.selectNote(c.ID)

	case DeselectNote:
		a.state.Selected = ""
		return Result{Changed: true}

	case DeleteNote:
		if !a.notes.Remove(c.ID) {
			return Result{}
		}
		delete(a.state.Marked, c.ID)
		if a.state.Selected == c.ID {
			a.state.Selected = ""
			if id := a.firstSelectable(); id != "" {
				a.selectNote(id)
			}
		}
		return Result{Changed: true}

	case DeleteNotes:
		return a.deleteMany(c.IDs)

	case DeleteMarked:
		res := a.deleteMany(a.MarkedIDs())
		a.state.Marked = map[string]bool{}
		return res

	case ToggleMark:
		if _, ok := a.notes.Get(c.ID); !ok {
			return Result{}
		}
		if a.state.Marked[c.ID] {
			delete(a.state.Marked, c.ID)
		} else {
			a.state.Marked[c.ID] = true
		}
		return Result{Changed: true}

	case ClearMarks:
		a.state.Marked = map[string]bool{}
		return Result{Changed: true}

	case TogglePin:
		return a.update(c.ID, func(n *models.Note) { n.IsPinned = !n.IsPinned })

	case ToggleFavorite:
		return a.update(c.ID, func(n *models.Note) { n.IsFavorite = !n.IsFavorite })

	case SetArchived:
		res := a.update(c.ID, func(n *models.Note) { n.IsArchived = c.Archived })
		if res.Changed && c.Archived && a.state.Selected == c.ID {
			a.state.Selected = ""
		}
		return res

	case SetColor:
		if !c.Color.Valid() {
			return Result{Message: MsgUnknownColor}
		}
		return a.update(c.ID, func(n *models.Note) { n.Color = c.Color })

	case LockNote:
		return a.lock(c)

	case UnlockNote:
		return a.unlock(c)

	case EditNote:
		if n, ok := a.notes.Get(c.ID); ok && n.IsLocked {
			return Result{Message: MsgLocked}
		}
		return a.update(c.ID, func(n *models.Note) {
			if c.Title != nil {
				n.Title = *c.Title
			}
			if c.Content != nil {
				n.Content = *c.Content
			}
		})

	case AppendText:
		if c.Text == "" {
			return Result{}
		}
		return a.update(c.ID, func(n *models.Note) { n.Content = notes.AppendText(n.Content, c.Text) })

	case ReplaceContent:
		return a.update(c.ID, func(n *models.Note) { n.Content = c.Text })

	case AddTask:
		return a.editTasks(func(list []models.Task, now time.Time) []models.Task {
			return todo.Add(list, a.newID(), c.Text, now)
		})
	case ToggleTask:
		return a.editTasks(func(list []models.Task, now time.Time) []models.Task {
			return todo.Toggle(list, c.ID, now)
		})
	case SetTaskText:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.SetText(list, c.ID, c.Text)
		})
	case SetTaskPriority:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.SetPriority(list, c.ID, c.Priority)
		})
	case SetTaskDueDate:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.SetDueDate(list, c.ID, c.Due)
		})
	case SetTaskType:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.SetType(list, c.ID, c.Type)
		})
	case DeleteTask:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.Delete(list, c.ID)
		})
	case ForceResetDaily:
		return a.editTasks(func(list []models.Task, _ time.Time) []models.Task {
			return todo.ForceResetDaily(list)
		})

	case NewTab:
		return a.editSource(func(src models.TaskSource) models.TaskSource {
			return todo.NewTab(src, a.newID())
		})
	case RenameTab:
		return a.editSource(func(src models.TaskSource) models.TaskSource {
			return todo.RenameTab(src, c.ID, c.Name)
		})
	case DeleteTab:
		return a.editSource(func(src models.TaskSource) models.TaskSource {
			return todo.DeleteTab(src, c.ID)
		})
	case SelectTab:
		res := a.editSource(func(src models.TaskSource) models.TaskSource {
			return todo.SelectTab(src, c.ID)
		})
		if res.Changed {
			a.activate(a.state.Selected)
		}
		return res

	case SetNoteView:
		a.state.NoteView = c.Options
		return Result{Changed: true}

	case SetTaskView:
		a.state.TaskView = c.Options
		return Result{Changed: true}

	case SetTheme:
		if !notes.ValidTheme(c.Theme) {
			return Result{Message: MsgUnknownTheme}
		}
		a.state.Theme = c.Theme
		if a.loadErr != nil {
			return Result{Changed: true}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notes.SaveTheme(ctx, a.kv, c.Theme); err != nil {
			a.log.Errorw("failed to save theme", "error", err)
		}
		return Result{Changed: true}
	}
	return Result{}
}

func (a *App) selectNote(id string) Result {
	n, ok := a.notes.Get(id)
	if !ok {
		return Result{}
	}
	if n.IsLocked {
		return Result{Message: MsgLocked}
	}
	a.state.Selected = id
	a.activate(id)
	return Result{Changed: true, NoteID: id}
}

// activate runs the daily reset on the current list of a todo note. The
// note is only rewritten when the reset changes something.
func (a *App) activate(id string) {
	n, ok := a.notes.Get(id)
	if !ok || n.Type != models.NoteTypeTodo {
		return
	}
	now := a.notes.Now()
	list := models.CurrentTasks(n.Tasks)
	if !todo.NeedsReset(list, now) {
		return
	}
	reset := todo.ResetDaily(list, now)
	a.notes.Update(id, func(n *models.Note) {
		n.Tasks = models.WithCurrentTasks(n.Tasks, reset)
	})
	a.log.Debugw("daily tasks reset", "note", id)
}

func (a *App) deleteMany(ids []string) Result {
	removed := a.notes.RemoveMany(ids)
	for _, id := range ids {
		delete(a.state.Marked, id)
		if id == a.state.Selected {
			a.state.Selected = ""
		}
	}
	return Result{Changed: removed > 0}
}

func (a *App) update(id string, fn func(*models.Note)) Result {
	return Result{Changed: a.notes.Update(id, fn), NoteID: id}
}

// editTasks rewrites the current task list of the selected todo note
func (a *App) editTasks(fn func([]models.Task, time.Time) []models.Task) Result {
	return a.editSource(func(src models.TaskSource) models.TaskSource {
		return models.WithCurrentTasks(src, fn(models.CurrentTasks(src), a.notes.Now()))
	})
}

func (a *App) editSource(fn func(models.TaskSource) models.TaskSource) Result {
	n, ok := a.Selected()
	if !ok {
		return Result{}
	}
	if n.Type != models.NoteTypeTodo {
		return Result{Message: MsgNotTodo}
	}
	return a.update(n.ID, func(n *models.Note) { n.Tasks = fn(n.Tasks) })
}

func (a *App) lock(c LockNote) Result {
	n, ok := a.notes.Get(c.ID)
	if !ok || n.IsLocked {
		return Result{}
	}
	if msg := a.validateLock(c); msg != "" {
		return Result{Message: msg}
	}
	hash, err := notes.HashPassword(c.Password, a.cost)
	if err != nil {
		a.log.Errorw("failed to hash lock password", "error", err)
		return Result{Message: MsgLockFailed}
	}
	res := a.update(c.ID, func(n *models.Note) {
		n.IsLocked = true
		n.PasswordHash = hash
	})
	if res.Changed && a.state.Selected == c.ID {
		a.state.Selected = ""
	}
	return res
}

func (a *App) validateLock(c LockNote) string {
	err := a.validate.Struct(lockRequest{Password: c.Password, Confirm: c.Confirm})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	for _, fe := range verrs {
		if fe.Field() == "Password" {
			return MsgPasswordTooShort
		}
	}
	return MsgPasswordMismatch
}

func (a *App) unlock(c UnlockNote) Result {
	n, ok := a.notes.Get(c.ID)
	if !ok || !n.IsLocked {
		return Result{}
	}
	match, err := notes.CheckPassword(n.PasswordHash, c.Password)
	if err != nil {
		a.log.Errorw("stored lock hash is unreadable", "note", c.ID, "error", err)
	}
	if !match {
		return Result{Message: MsgWrongPassword}
	}
	return a.update(c.ID, func(n *models.Note) {
		n.IsLocked = false
		n.PasswordHash = ""
	})
}

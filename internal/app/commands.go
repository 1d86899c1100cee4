package app

import (
	"time"

	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/todo"
)

// Command is a request to change application state. Commands are only
// applied through Dispatch.
type Command interface {
	op() string
}

// Note lifecycle
type (
	CreateNote     struct{ Type models.NoteType }
	SelectNote     struct{ ID string }
	DeselectNote   struct{}
	DeleteNote     struct{ ID string }
	DeleteNotes    struct{ IDs []string }
	TogglePin      struct{ ID string }
	ToggleFavorite struct{ ID string }
	SetArchived    struct {
		ID       string
		Archived bool
	}
	SetColor struct {
		ID    string
		Color models.Color
	}
	LockNote struct {
		ID       string
		Password string
		Confirm  string
	}
	UnlockNote struct {
		ID       string
		Password string
	}
	// EditNote changes the fields that are not nil
	EditNote struct {
		ID      string
		Title   *string
		Content *string
	}
	// AppendText merges recognised handwriting below the content
	AppendText struct {
		ID   string
		Text string
	}
	// ReplaceContent merges an assistant result
	ReplaceContent struct {
		ID   string
		Text string
	}
)

// Multi-select
type (
	ToggleMark   struct{ ID string }
	ClearMarks   struct{}
	DeleteMarked struct{}
)

// Tasks of the selected note's current list
type (
	AddTask    struct{ Text string }
	ToggleTask struct{ ID string }
	SetTaskText struct {
		ID   string
		Text string
	}
	SetTaskPriority struct {
		ID       string
		Priority models.Priority
	}
	SetTaskDueDate struct {
		ID  string
		Due *time.Time
	}
	SetTaskType struct {
		ID   string
		Type models.TaskType
	}
	DeleteTask      struct{ ID string }
	ForceResetDaily struct{}
)

// Tabs of the selected note
type (
	NewTab    struct{}
	RenameTab struct {
		ID   string
		Name string
	}
	DeleteTab struct{ ID string }
	SelectTab struct{ ID string }
)

// View and preferences
type (
	SetNoteView struct{ Options notes.ViewOptions }
	SetTaskView struct{ Options todo.ViewOptions }
	SetTheme    struct{ Theme notes.Theme }
)

func (CreateNote) op() string      { return "create" }
func (SelectNote) op() string      { return "select" }
func (DeselectNote) op() string    { return "deselect" }
func (DeleteNote) op() string      { return "delete" }
func (DeleteNotes) op() string     { return "delete_many" }
func (TogglePin) op() string       { return "pin" }
func (ToggleFavorite) op() string  { return "favorite" }
func (SetArchived) op() string     { return "archive" }
func (SetColor) op() string        { return "color" }
func (LockNote) op() string        { return "lock" }
func (UnlockNote) op() string      { return "unlock" }
func (EditNote) op() string        { return "edit" }
func (AppendText) op() string      { return "append_text" }
func (ReplaceContent) op() string  { return "replace_content" }
func (ToggleMark) op() string      { return "mark" }
func (ClearMarks) op() string      { return "clear_marks" }
func (DeleteMarked) op() string    { return "delete_marked" }
func (AddTask) op() string         { return "task_add" }
func (ToggleTask) op() string      { return "task_toggle" }
func (SetTaskText) op() string     { return "task_text" }
func (SetTaskPriority) op() string { return "task_priority" }
func (SetTaskDueDate) op() string  { return "task_due" }
func (SetTaskType) op() string     { return "task_type" }
func (DeleteTask) op() string      { return "task_delete" }
func (ForceResetDaily) op() string { return "task_force_reset" }
func (NewTab) op() string          { return "tab_new" }
func (RenameTab) op() string       { return "tab_rename" }
func (DeleteTab) op() string       { return "tab_delete" }
func (SelectTab) op() string       { return "tab_select" }
func (SetNoteView) op() string     { return "note_view" }
func (SetTaskView) op() string     { return "task_view" }
func (SetTheme) op() string        { return "theme" }

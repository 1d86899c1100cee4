package models

import "time"

// NoteType is the kind of a note, fixed at creation
type NoteType string

const (
	NoteTypeNote        NoteType = "note"
	NoteTypeTodo        NoteType = "todo"
	NoteTypeHandwriting NoteType = "handwriting"
)

// DefaultTitle returns the placeholder title for a freshly created note
func (t NoteType) DefaultTitle() string {
	switch t {
	case NoteTypeTodo:
		return "New To-Do List"
	case NoteTypeHandwriting:
		return "New Handwriting Note"
	default:
		return "New Note"
	}
}

// Valid reports whether t is a known note type
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeNote, NoteTypeTodo, NoteTypeHandwriting:
		return true
	}
	return false
}

// Priority of a task. The empty value means no priority.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight ranks priorities for sorting; absence ranks lowest
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is empty or one of low, medium, high
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskType says whether a task recurs
type TaskType string

const (
	TaskTypeOneTime TaskType = "one-time"
	TaskTypeDaily   TaskType = "daily"
)

// Valid reports whether t is one-time or daily
func (t TaskType) Valid() bool {
	return t == TaskTypeOneTime || t == TaskTypeDaily
}

// Task is a single checklist item
type Task struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Completed     bool       `json:"completed"`
	Priority      Priority   `json:"priority,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	TaskType      TaskType   `json:"taskType"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Tab is a named sub-list of tasks within a todo note
type Tab struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Note is a user-authored document
type Note struct {
	ID           string
	Title        string
	Content      string
	Type         NoteType
	LastModified time.Time
	CreatedAt    time.Time
	IsPinned     bool
	IsFavorite   bool
	IsArchived   bool
	IsLocked     bool
	PasswordHash string
	Color        Color

	// Tasks is the authoritative task list of a todo note, nil for other types
	Tasks TaskSource

	// LegacyPassword is only set when decoding data that stored lock
	// passwords in clear text. It is never encoded.
	LegacyPassword string
}

// Clone returns a copy of t that shares no memory with it
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.LastCompleted = cloneTime(t.LastCompleted)
	return c
}

// CloneTasks deep-copies a task list, preserving nil
func CloneTasks(list []Task) []Task {
	if list == nil {
		return nil
	}
	out := make([]Task, len(list))
	for i, t := range list {
		out[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the tab
func (t Tab) Clone() Tab {
	return Tab{ID: t.ID, Name: t.Name, Tasks: CloneTasks(t.Tasks)}
}

// Clone returns a deep copy of the note
func (n Note) Clone() Note {
	c := n
	c.Tasks = CloneSource(n.Tasks)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

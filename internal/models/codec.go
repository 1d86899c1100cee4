package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// noteJSON is the persisted shape of a Note. Dates are encoded by
// encoding/json as RFC 3339 strings.
type noteJSON struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Type         NoteType  `json:"type"`
	LastModified time.Time `json:"lastModified"`
	CreatedAt    time.Time `json:"createdAt"`
	IsPinned     bool      `json:"isPinned"`
	IsFavorite   bool      `json:"isFavorite"`
	IsArchived   bool      `json:"isArchived"`
	IsLocked     bool      `json:"isLocked"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Password     string    `json:"password,omitempty"`
	Color        Color     `json:"color,omitempty"`
	Tasks        []Task    `json:"tasks,omitempty"`
	Tabs         []Tab     `json:"tabs,omitempty"`
	ActiveTabID  string    `json:"activeTabId,omitempty"`
}

// MarshalJSON encodes the note, flattening its task source into the
// tasks or tabs field
func (n Note) MarshalJSON() ([]byte, error) {
	w := noteJSON{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		Type:         n.Type,
		LastModified: n.LastModified,
		CreatedAt:    n.CreatedAt,
		IsPinned:     n.IsPinned,
		IsFavorite:   n.IsFavorite,
		IsArchived:   n.IsArchived,
		IsLocked:     n.IsLocked,
		PasswordHash: n.PasswordHash,
		Color:        n.Color,
	}
	switch s := n.Tasks.(type) {
	case LegacyTasks:
		w.Tasks = s.Tasks
	case TabbedTasks:
		w.Tabs = s.Tabs
		w.ActiveTabID = s.ActiveTabID
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a note. Non-empty tabs win over tasks.
func (n *Note) UnmarshalJSON(data []byte) error {
	var w noteJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		w.Type = NoteTypeNote
	}

	*n = Note{
		ID:             w.ID,
		Title:          w.Title,
		Content:        w.Content,
		Type:           w.Type,
		LastModified:   w.LastModified,
		CreatedAt:      w.CreatedAt,
		IsPinned:       w.IsPinned,
		IsFavorite:     w.IsFavorite,
		IsArchived:     w.IsArchived,
		IsLocked:       w.IsLocked,
		PasswordHash:   w.PasswordHash,
		LegacyPassword: w.Password,
		Color:          w.Color,
	}

	switch {
	case len(w.Tabs) > 0:
		for i := range w.Tabs {
			normalizeTasks(w.Tabs[i].Tasks)
		}
		n.Tasks = TabbedTasks{Tabs: w.Tabs, ActiveTabID: w.ActiveTabID}
	case w.Tasks != nil:
		normalizeTasks(w.Tasks)
		n.Tasks = LegacyTasks{Tasks: w.Tasks}
	case w.Type == NoteTypeTodo:
		n.Tasks = LegacyTasks{}
	}
	if n.LastModified.Before(n.CreatedAt) {
		n.LastModified = n.CreatedAt
	}
	return nil
}

// normalizeTasks fills in the task type for records written before it existed
func normalizeTasks(list []Task) {
	for i := range list {
		if !list[i].TaskType.Valid() {
			list[i].TaskType = TaskTypeOneTime
		}
	}
}

// MarshalNotes serializes a note collection
func MarshalNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}
	return data, nil
}

// UnmarshalNotes parses a note collection written by MarshalNotes
func UnmarshalNotes(data []byte) ([]Note, error) {
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

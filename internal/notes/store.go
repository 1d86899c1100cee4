// Package notes holds the canonical note collection, its derived sidebar
// view and its persistence.
package notes

import (
	"slices"
	"sync"
	"time"

	"github.com/kim-mac/aiopad/internal/models"
)

// Clock returns the current time
type Clock func() time.Time

// Store is the ordered collection of notes, newest first. Records are
// never modified in place; every change replaces the whole note.
type Store struct {
	mu    sync.RWMutex
	notes []models.Note
	now   Clock

	// OnChange receives a snapshot of the collection after every mutation
	OnChange func([]models.Note)
}

// NewStore creates a store holding notes in the given order
func NewStore(notes []models.Note, now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{notes: slices.Clone(notes), now: now}
}

// Now returns the store's clock reading
func (s *Store) Now() time.Time {
	return s.now()
}

// All returns the notes in collection order
func (s *Store) All() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Len returns the number of notes
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns a deep copy of the note with the given id
func (s *Store) Get(id string) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return models.Note{}, false
	}
	return s.notes[i].Clone(), true
}

// Add prepends a note
func (s *Store) Add(n models.Note) {
	s.mu.Lock()
	s.notes = slices.Insert(slices.Clone(s.notes), 0, n.Clone())
	s.mu.Unlock()
	s.changed()
}

// Remove deletes a note and reports whether it existed
func (s *Store) Remove(id string) bool {
	return s.RemoveMany([]string{id}) == 1
}

// RemoveMany deletes every listed note and returns how many were removed
func (s *Store) RemoveMany(ids []string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	before := len(s.notes)
	s.notes = slices.DeleteFunc(slices.Clone(s.notes), func(n models.Note) bool { return drop[n.ID] })
	removed := before - len(s.notes)
	s.mu.Unlock()

	if removed > 0 {
		s.changed()
	}
	return removed
}

// Update applies fn to a copy of the note, stamps LastModified and stores
// the copy in its place. It returns false, changing nothing, when id is
// unknown.
func (s *Store) Update(id string, fn func(*models.Note)) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	n := s.notes[i].Clone()
	fn(&n)
	n.ID = id
	n.LastModified = s.now()
	if n.LastModified.Before(n.CreatedAt) {
		n.LastModified = n.CreatedAt
	}
	notes := slices.Clone(s.notes)
	notes[i] = n
	s.notes = notes
	s.mu.Unlock()

	s.changed()
	return true
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
}

func (s *Store) changed() {
	if s.OnChange != nil {
		s.OnChange(s.All())
	}
}

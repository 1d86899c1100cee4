package models

// TaskSource is the authoritative task container of a todo note. It is
// either LegacyTasks or TabbedTasks; no other implementations exist.
type TaskSource interface {
	isTaskSource()
}

// LegacyTasks is a single flat task list
type LegacyTasks struct {
	Tasks []Task
}

// TabbedTasks holds several named task lists and remembers the active one
type TabbedTasks struct {
	Tabs        []Tab
	ActiveTabID string
}

func (LegacyTasks) isTaskSource() {}
func (TabbedTasks) isTaskSource() {}

// ActiveIndex returns the index of the active tab. A stale or empty
// ActiveTabID falls back to the first tab; -1 means there are no tabs.
func (t TabbedTasks) ActiveIndex() int {
	if len(t.Tabs) == 0 {
		return -1
	}
	for i, tab := range t.Tabs {
		if tab.ID == t.ActiveTabID {
			return i
		}
	}
	return 0
}

// CurrentTasks returns the task list currently being edited
func CurrentTasks(src TaskSource) []Task {
	switch s := src.(type) {
	case LegacyTasks:
		return s.Tasks
	case TabbedTasks:
		if i := s.ActiveIndex(); i >= 0 {
			return s.Tabs[i].Tasks
		}
	}
	return nil
}

// WithCurrentTasks returns a copy of src whose current list is replaced by list
func WithCurrentTasks(src TaskSource, list []Task) TaskSource {
	switch s := src.(type) {
	case TabbedTasks:
		i := s.ActiveIndex()
		if i < 0 {
			return LegacyTasks{Tasks: list}
		}
		tabs := make([]Tab, len(s.Tabs))
		copy(tabs, s.Tabs)
		tabs[i].Tasks = list
		return TabbedTasks{Tabs: tabs, ActiveTabID: tabs[i].ID}
	default:
		return LegacyTasks{Tasks: list}
	}
}

// CloneSource deep-copies a task source
func CloneSource(src TaskSource) TaskSource {
	switch s := src.(type) {
	case LegacyTasks:
		return LegacyTasks{Tasks: CloneTasks(s.Tasks)}
	case TabbedTasks:
		var tabs []Tab
		if s.Tabs != nil {
			tabs = make([]Tab, len(s.Tabs))
			for i, t := range s.Tabs {
				tabs[i] = t.Clone()
			}
		}
		return TabbedTasks{Tabs: tabs, ActiveTabID: s.ActiveTabID}
	}
	return nil
}

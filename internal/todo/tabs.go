package todo

import (
	"fmt"
	"slices"

	"github.com/kim-mac/aiopad/internal/models"
)

// NewTab appends a tab named "Tab N" and makes it active. Converting a
// legacy list moves its tasks into the first tab.
func NewTab(src models.TaskSource, id string) models.TabbedTasks {
	var tabs []models.Tab
	switch s := src.(type) {
	case models.TabbedTasks:
		tabs = cloneTabs(s.Tabs)
	case models.LegacyTasks:
		if len(s.Tasks) > 0 {
			tabs = []models.Tab{{ID: id, Name: tabName(0), Tasks: models.CloneTasks(s.Tasks)}}
			return models.TabbedTasks{Tabs: tabs, ActiveTabID: id}
		}
	}
	tabs = append(tabs, models.Tab{ID: id, Name: tabName(len(tabs)), Tasks: []models.Task{}})
	return models.TabbedTasks{Tabs: tabs, ActiveTabID: id}
}

// RenameTab changes a tab's name. Legacy sources are returned unchanged.
func RenameTab(src models.TaskSource, id, name string) models.TaskSource {
	s, ok := src.(models.TabbedTasks)
	if !ok {
		return models.CloneSource(src)
	}
	tabs := cloneTabs(s.Tabs)
	for i := range tabs {
		if tabs[i].ID == id {
			tabs[i].Name = name
		}
	}
	return models.TabbedTasks{Tabs: tabs, ActiveTabID: s.ActiveTabID}
}

// DeleteTab removes a tab. Deleting the active tab activates the first
// remaining one; deleting the last tab leaves an empty legacy list.
func DeleteTab(src models.TaskSource, id string) models.TaskSource {
	s, ok := src.(models.TabbedTasks)
	if !ok {
		return models.CloneSource(src)
	}
	tabs := slices.DeleteFunc(cloneTabs(s.Tabs), func(t models.Tab) bool { return t.ID == id })
	if len(tabs) == 0 {
		return models.LegacyTasks{}
	}
	active := s.ActiveTabID
	if active == id || !slices.ContainsFunc(tabs, func(t models.Tab) bool { return t.ID == active }) {
		active = tabs[0].ID
	}
	return models.TabbedTasks{Tabs: tabs, ActiveTabID: active}
}

// SelectTab makes a tab active; unknown ids leave the source unchanged
func SelectTab(src models.TaskSource, id string) models.TaskSource {
	s, ok := src.(models.TabbedTasks)
	if !ok || !slices.ContainsFunc(s.Tabs, func(t models.Tab) bool { return t.ID == id }) {
		return models.CloneSource(src)
	}
	return models.TabbedTasks{Tabs: cloneTabs(s.Tabs), ActiveTabID: id}
}

func tabName(i int) string {
	return fmt.Sprintf("Tab %d", i+1)
}

func cloneTabs(tabs []models.Tab) []models.Tab {
	if tabs == nil {
		return nil
	}
	out := make([]models.Tab, len(tabs))
	for i, t := range tabs {
		out[i] = t.Clone()
	}
	return out
}

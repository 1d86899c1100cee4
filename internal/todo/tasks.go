// Package todo holds the task-list operations of to-do notes. Every
// function returns a new slice and leaves its input untouched; callers
// write the result back with models.WithCurrentTasks.
package todo

import (
	"slices"
	"time"

	"github.com/kim-mac/aiopad/internal/models"
)

// DefaultText is the text of a task added without any
const DefaultText = "New task"

// Add appends a new pending one-time task
func Add(list []models.Task, id, text string, now time.Time) []models.Task {
	if text == "" {
		text = DefaultText
	}
	out := models.CloneTasks(list)
	return append(out, models.Task{
		ID:        id,
		Text:      text,
		TaskType:  models.TaskTypeOneTime,
		CreatedAt: now,
	})
}

// Toggle flips the completion of a task, stamping or clearing LastCompleted
func Toggle(list []models.Task, id string, now time.Time) []models.Task {
	return update(list, id, func(t *models.Task) {
		t.Completed = !t.Completed
		if t.Completed {
			stamp := now
			t.LastCompleted = &stamp
		} else {
			t.LastCompleted = nil
		}
	})
}

// SetText replaces the text of a task
func SetText(list []models.Task, id, text string) []models.Task {
	return update(list, id, func(t *models.Task) {
		t.Text = text
	})
}

// SetPriority sets or clears (PriorityNone) a task's priority
func SetPriority(list []models.Task, id string, p models.Priority) []models.Task {
	return update(list, id, func(t *models.Task) {
		t.Priority = p
	})
}

// SetDueDate sets the due date of a task; nil clears it
func SetDueDate(list []models.Task, id string, due *time.Time) []models.Task {
	return update(list, id, func(t *models.Task) {
		if due == nil {
			t.DueDate = nil
			return
		}
		d := *due
		t.DueDate = &d
	})
}

// SetType switches a task between one-time and daily
func SetType(list []models.Task, id string, tt models.TaskType) []models.Task {
	return update(list, id, func(t *models.Task) {
		t.TaskType = tt
	})
}

// Delete removes a task
func Delete(list []models.Task, id string) []models.Task {
	out := models.CloneTasks(list)
	return slices.DeleteFunc(out, func(t models.Task) bool { return t.ID == id })
}

// Find returns the task with the given id
func Find(list []models.Task, id string) (models.Task, bool) {
	i := slices.IndexFunc(list, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return list[i].Clone(), true
}

// Completed counts the completed tasks in list
func Completed(list []models.Task) int {
	n := 0
	for _, t := range list {
		if t.Completed {
			n++
		}
	}
	return n
}

// Total counts the tasks in list
func Total(list []models.Task) int {
	return len(list)
}

// Overdue reports whether a pending task's due day lies before now's day
func Overdue(t models.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return day(*t.DueDate, now.Location()).Before(day(now, now.Location()))
}

// update applies fn to a copy of the task with the given id. A missing id
// returns an unchanged copy.
func update(list []models.Task, id string, fn func(*models.Task)) []models.Task {
	out := models.CloneTasks(list)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			break
		}
	}
	return out
}

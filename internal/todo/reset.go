package todo

import (
	"time"

	"github.com/kim-mac/aiopad/internal/models"
)

// ResetDaily unchecks daily tasks that were not completed today. Today is
// the calendar day of now in now's location.
//
// A daily task completed on an earlier day loses both its completion and
// its LastCompleted stamp. A daily task marked completed without any stamp
// is considered stale and unchecked. Everything else is kept, so running
// ResetDaily twice on the same day changes nothing the second time.
func ResetDaily(list []models.Task, now time.Time) []models.Task {
	today := day(now, now.Location())
	out := models.CloneTasks(list)
	for i := range out {
		t := &out[i]
		if t.TaskType != models.TaskTypeDaily {
			continue
		}
		switch {
		case t.LastCompleted != nil:
			if day(*t.LastCompleted, now.Location()).Before(today) {
				t.Completed = false
				t.LastCompleted = nil
			}
		case t.Completed:
			t.Completed = false
		}
	}
	return out
}

// ForceResetDaily unchecks every daily task regardless of when it was done
func ForceResetDaily(list []models.Task) []models.Task {
	out := models.CloneTasks(list)
	for i := range out {
		if out[i].TaskType == models.TaskTypeDaily {
			out[i].Completed = false
			out[i].LastCompleted = nil
		}
	}
	return out
}

// NeedsReset reports whether ResetDaily would change list
func NeedsReset(list []models.Task, now time.Time) bool {
	today := day(now, now.Location())
	for _, t := range list {
		if t.TaskType != models.TaskTypeDaily {
			continue
		}
		if t.LastCompleted != nil && day(*t.LastCompleted, now.Location()).Before(today) {
			return true
		}
		if t.LastCompleted == nil && t.Completed {
			return true
		}
	}
	return false
}

// day truncates t to local midnight in loc
func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

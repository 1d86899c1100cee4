package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/models"
)

var now = time.Date(2024, 3, 10, 14, 0, 0, 0, time.Local)

func ptr(t time.Time) *time.Time { return &t }

func ids(list []models.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestAdd(t *testing.T) {
	list := Add(nil, "a", "", now)
	require.Len(t, list, 1)
	assert.Equal(t, models.Task{ID: "a", Text: DefaultText, TaskType: models.TaskTypeOneTime, CreatedAt: now}, list[0])

	list2 := Add(list, "b", "buy milk", now)
	assert.Len(t, list, 1, "input must not grow")
	assert.Equal(t, []string{"a", "b"}, ids(list2))
	assert.Equal(t, "buy milk", list2[1].Text)
}

func TestToggle(t *testing.T) {
	list := Add(nil, "a", "x", now)

	done := Toggle(list, "a", now)
	assert.True(t, done[0].Completed)
	require.NotNil(t, done[0].LastCompleted)
	assert.Equal(t, now, *done[0].LastCompleted)
	assert.False(t, list[0].Completed)

	undone := Toggle(done, "a", now)
	assert.False(t, undone[0].Completed)
	assert.Nil(t, undone[0].LastCompleted)

	assert.Equal(t, list, Toggle(list, "missing", now))
}

func TestFieldSetters(t *testing.T) {
	list := Add(Add(nil, "a", "one", now), "b", "two", now)
	due := now.Add(48 * time.Hour)

	list = SetText(list, "a", "uno")
	list = SetPriority(list, "b", models.PriorityHigh)
	list = SetDueDate(list, "a", &due)
	list = SetType(list, "b", models.TaskTypeDaily)

	assert.Equal(t, "uno", list[0].Text)
	assert.Equal(t, due, *list[0].DueDate)
	assert.Equal(t, models.PriorityHigh, list[1].Priority)
	assert.Equal(t, models.TaskTypeDaily, list[1].TaskType)

	list = SetDueDate(list, "a", nil)
	assert.Nil(t, list[0].DueDate)

	list = Delete(list, "a")
	assert.Equal(t, []string{"b"}, ids(list))
	assert.Equal(t, list, Delete(list, "missing"))
}

func TestCountersAndOverdue(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	list := []models.Task{
		{ID: "a", Completed: true},
		{ID: "b", DueDate: &yesterday},
		{ID: "c", DueDate: ptr(now)},
	}
	assert.Equal(t, 1, Completed(list))
	assert.Equal(t, 3, Total(list))

	assert.False(t, Overdue(list[0], now))
	assert.True(t, Overdue(list[1], now))
	assert.False(t, Overdue(list[2], now), "due today is not overdue")
}

func TestResetDaily(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	earlierToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, time.Local)

	t.Run("completed yesterday is reset", func(t *testing.T) {
		list := []models.Task{{ID: "a", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: &yesterday}}
		got := ResetDaily(list, now)
		assert.Equal(t, models.Task{ID: "a", TaskType: models.TaskTypeDaily}, got[0])
		assert.True(t, list[0].Completed, "input must not be mutated")
	})

	t.Run("completed today is kept", func(t *testing.T) {
		list := []models.Task{{ID: "a", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: &earlierToday}}
		assert.Equal(t, list, ResetDaily(list, now))
		assert.False(t, NeedsReset(list, now))
	})

	t.Run("completed without stamp is reset", func(t *testing.T) {
		list := []models.Task{{ID: "a", TaskType: models.TaskTypeDaily, Completed: true}}
		assert.True(t, NeedsReset(list, now))
		assert.False(t, ResetDaily(list, now)[0].Completed)
	})

	t.Run("one-time tasks are ignored", func(t *testing.T) {
		list := []models.Task{{ID: "a", TaskType: models.TaskTypeOneTime, Completed: true, LastCompleted: &yesterday}}
		assert.Equal(t, list, ResetDaily(list, now))
	})

	t.Run("idempotent", func(t *testing.T) {
		list := []models.Task{
			{ID: "a", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: &yesterday},
			{ID: "b", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: &earlierToday},
			{ID: "c", TaskType: models.TaskTypeDaily, Completed: true},
			{ID: "d", TaskType: models.TaskTypeOneTime, Completed: true},
		}
		once := ResetDaily(list, now)
		assert.Equal(t, once, ResetDaily(once, now))
		assert.False(t, NeedsReset(once, now))
	})

	t.Run("day boundary follows the location of now", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		// 23:30 UTC on the 9th is already the 10th in Tokyo
		done := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
		list := []models.Task{{ID: "a", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: &done}}

		assert.True(t, ResetDaily(list, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))[0].Completed == false)
		assert.True(t, ResetDaily(list, time.Date(2024, 3, 10, 12, 0, 0, 0, tokyo))[0].Completed)
	})
}

func TestForceResetDaily(t *testing.T) {
	list := []models.Task{
		{ID: "a", TaskType: models.TaskTypeDaily, Completed: true, LastCompleted: ptr(now)},
		{ID: "b", TaskType: models.TaskTypeOneTime, Completed: true, LastCompleted: ptr(now)},
	}
	got := ForceResetDaily(list)
	assert.False(t, got[0].Completed)
	assert.Nil(t, got[0].LastCompleted)
	assert.True(t, got[1].Completed)
	assert.NotNil(t, got[1].LastCompleted)
}

func TestTabs(t *testing.T) {
	legacy := models.LegacyTasks{Tasks: Add(nil, "t1", "carry over", now)}

	src := NewTab(legacy, "tab-a")
	require.Len(t, src.Tabs, 1)
	assert.Equal(t, "Tab 1", src.Tabs[0].Name)
	assert.Equal(t, []string{"t1"}, ids(src.Tabs[0].Tasks))
	assert.Equal(t, "tab-a", src.ActiveTabID)

	src = NewTab(src, "tab-b")
	assert.Equal(t, "Tab 2", src.Tabs[1].Name)
	assert.Equal(t, "tab-b", src.ActiveTabID)
	assert.Empty(t, models.CurrentTasks(src))

	renamed := RenameTab(src, "tab-a", "Groceries").(models.TabbedTasks)
	assert.Equal(t, "Groceries", renamed.Tabs[0].Name)
	assert.Equal(t, "Tab 1", src.Tabs[0].Name)

	selected := SelectTab(renamed, "tab-a")
	assert.Equal(t, []string{"t1"}, ids(models.CurrentTasks(selected)))
	assert.Equal(t, renamed, SelectTab(renamed, "nope"))

	afterDelete := DeleteTab(selected, "tab-a").(models.TabbedTasks)
	assert.Equal(t, "tab-b", afterDelete.ActiveTabID)
	assert.Len(t, afterDelete.Tabs, 1)

	assert.Equal(t, models.LegacyTasks{}, DeleteTab(afterDelete, "tab-b"))

	fresh := NewTab(models.LegacyTasks{}, "x")
	assert.Equal(t, []models.Tab{{ID: "x", Name: "Tab 1", Tasks: []models.Task{}}}, fresh.Tabs)
}

func TestDeriveFilters(t *testing.T) {
	list := []models.Task{
		{ID: "1", Text: "Call mom", Priority: models.PriorityHigh, TaskType: models.TaskTypeOneTime},
		{ID: "2", Text: "Water plants", Priority: models.PriorityLow, TaskType: models.TaskTypeDaily, Completed: true},
		{ID: "3", Text: "Read", TaskType: models.TaskTypeDaily},
	}

	cases := []struct {
		name string
		opts ViewOptions
		want []string
	}{
		{"high priority only", ViewOptions{FilterPriority: "high"}, []string{"1"}},
		{"no priority", ViewOptions{FilterPriority: NoPriority}, []string{"3"}},
		{"completed", ViewOptions{FilterCompleted: ShowCompleted}, []string{"2"}},
		{"pending", ViewOptions{FilterCompleted: ShowPending}, []string{"1", "3"}},
		{"daily", ViewOptions{FilterType: "daily"}, []string{"2", "3"}},
		{"search text", ViewOptions{SearchQuery: "MOM"}, []string{"1"}},
		{"search keeps inner spaces", ViewOptions{SearchQuery: "l m"}, []string{"1"}},
		{"search keeps surrounding spaces", ViewOptions{SearchQuery: " mom"}, []string{"1"}},
		{"search surrounding spaces must match", ViewOptions{SearchQuery: " call"}, []string{}},
		{"blank search shows all", ViewOptions{SearchQuery: "   "}, []string{"1", "2", "3"}},
		{"search matches priority", ViewOptions{SearchQuery: "low"}, []string{"2"}},
		{"search matches type", ViewOptions{SearchQuery: "one-time"}, []string{"1"}},
		{"filters compose", ViewOptions{FilterType: "daily", FilterCompleted: ShowPending}, []string{"3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(list, tc.opts)
			assert.ElementsMatch(t, tc.want, ids(got))
			assert.Equal(t, len(tc.want), Count(list, tc.opts))
		})
	}
}

func TestDeriveSort(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	list := []models.Task{
		{ID: "a", Text: "banana", Priority: models.PriorityLow, DueDate: &d2, CreatedAt: d1},
		{ID: "b", Text: "Apple", Priority: models.PriorityHigh, CreatedAt: d2},
		{ID: "c", Text: "cherry", DueDate: &d1, CreatedAt: d1.Add(time.Hour)},
		{ID: "d", Text: "date", Priority: models.PriorityLow},
	}

	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(Derive(list, ViewOptions{})))
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(Derive(list, ViewOptions{SortBy: SortPriority, SortOrder: Asc})))
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(Derive(list, ViewOptions{SortBy: SortDueDate, SortOrder: Asc})))
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(Derive(list, ViewOptions{SortBy: SortName, SortOrder: Asc})))
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(Derive(list, ViewOptions{SortBy: SortCreationDate, SortOrder: Asc})))
}

func TestDeriveProperties(t *testing.T) {
	list := []models.Task{
		{ID: "1", Priority: models.PriorityMedium},
		{ID: "2"},
		{ID: "3", Priority: models.PriorityMedium},
		{ID: "4", Priority: models.PriorityHigh},
		{ID: "5"},
	}

	for _, by := range []SortBy{SortPriority, SortDueDate, SortCreationDate, SortName} {
		for _, order := range []SortOrder{Asc, Desc} {
			opts := ViewOptions{SortBy: by, SortOrder: order}
			once := Derive(list, opts)
			assert.Equal(t, once, Derive(once, opts), "%s %s", by, order)
			assert.ElementsMatch(t, ids(list), ids(once))
		}
	}

	assert.Equal(t, []string{"4", "1", "3", "2", "5"}, ids(Derive(list, DefaultViewOptions())))
}

func TestCreationDateFallsBackToNumericID(t *testing.T) {
	list := []models.Task{{ID: "1700000000500"}, {ID: "1700000000100"}, {ID: "not-a-number"}}
	assert.Equal(t, []string{"not-a-number", "1700000000100", "1700000000500"},
		ids(Derive(list, ViewOptions{SortBy: SortCreationDate, SortOrder: Asc})))
}

func TestParsers(t *testing.T) {
	by, err := ParseSortBy("dueDate")
	require.NoError(t, err)
	assert.Equal(t, SortDueDate, by)
	_, err = ParseSortBy("color")
	assert.Error(t, err)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)

	pf, err := ParsePriorityFilter("medium")
	require.NoError(t, err)
	assert.Equal(t, PriorityFilter("medium"), pf)
	_, err = ParsePriorityFilter("")
	assert.Error(t, err)

	tf, err := ParseTypeFilter("daily")
	require.NoError(t, err)
	assert.Equal(t, TypeFilter("daily"), tf)

	p, err := ParsePriority("none")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityNone, p)
	_, err = ParsePriority("urgent")
	assert.Error(t, err)

	_, err = ParseCompletedFilter("pending")
	assert.NoError(t, err)
}

func TestParseDueDate(t *testing.T) {
	due, err := ParseDueDate(" ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, due)

	due, err = ParseDueDate("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, due.Day())
	assert.Equal(t, time.UTC, due.Location())

	_, err = ParseDueDate("tomorrow", time.UTC)
	assert.Error(t, err)
}

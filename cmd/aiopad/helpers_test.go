package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/models"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	got := formatTable([]string{"ID", "TITLE"}, [][]string{
		{"a", "first\nline"},
		{"longer", "second"},
	})
	assert.Equal(t, "ID      TITLE\na       first line\nlonger  second\n", got)
}

func TestFormatTableTruncatesLongCells(t *testing.T) {
	got := formatTable([]string{"X"}, [][]string{{strings.Repeat("y", 80)}})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[1], tableCellMaxWidth)
	assert.True(t, strings.HasSuffix(lines[1], "..."))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0b1c2d3e", shortID("0b1c2d3e-aaaa-bbbb"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestFlags(t *testing.T) {
	assert.Equal(t, "----", flags(models.Note{}))
	assert.Equal(t, "P--L", flags(models.Note{IsPinned: true, IsLocked: true}))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", formatAge(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", formatAge(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", formatAge(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", formatAge(now.Add(-49*time.Hour), now))
	assert.Equal(t, "2024-01-01", formatAge(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestReadArg(t *testing.T) {
	got, err := readArg(strings.NewReader("ignored"), "literal")
	require.NoError(t, err)
	assert.Equal(t, "literal", got)

	got, err = readArg(strings.NewReader("from stdin\n\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)
}

func TestNoteJSONHidesLockedContent(t *testing.T) {
	n := models.Note{ID: "1", Title: "t", Content: "secret words here", IsLocked: true, PasswordHash: "x"}
	out := toNoteJSON(n, true)
	assert.Empty(t, out.Content)
	assert.Zero(t, out.Words)
	assert.True(t, out.Locked)

	n.IsLocked = false
	out = toNoteJSON(n, true)
	assert.Equal(t, "secret words here", out.Content)
	assert.Equal(t, 3, out.Words)
}

func testSession(t *testing.T, ids ...string) *session {
	t.Helper()
	next := 0
	a := app.New(context.Background(), app.Options{
		NewID: func() string {
			id := ids[next]
			next++
			return id
		},
	})
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return &session{app: a}
}

func TestFindNoteByPrefix(t *testing.T) {
	s := testSession(t, "abc-1", "abd-2", "xyz-3")
	for range 3 {
		s.app.Dispatch(app.CreateNote{})
	}

	n, err := s.findNote("xyz-3")
	require.NoError(t, err)
	assert.Equal(t, "xyz-3", n.ID)

	n, err = s.findNote("ABD")
	require.NoError(t, err)
	assert.Equal(t, "abd-2", n.ID)

	_, err = s.findNote("ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.findNote("q")
	assert.ErrorContains(t, err, "not found")

	_, err = s.findNote(" ")
	assert.Error(t, err)
}

func TestOpenTodoRejectsOtherTypes(t *testing.T) {
	s := testSession(t, "note-1", "todo-1")
	s.app.Dispatch(app.CreateNote{Type: models.NoteTypeNote})
	s.app.Dispatch(app.CreateNote{Type: models.NoteTypeTodo})

	_, err := s.openTodo("note-1")
	assert.EqualError(t, err, app.MsgNotTodo)

	n, err := s.openTodo("todo")
	require.NoError(t, err)
	assert.Equal(t, "todo-1", n.ID)
	sel, _ := s.app.Selected()
	assert.Equal(t, "todo-1", sel.ID)
}

func TestFindTaskAndTab(t *testing.T) {
	s := testSession(t, "todo-1", "task-a", "tab-1", "tab-2")
	s.app.Dispatch(app.CreateNote{Type: models.NoteTypeTodo})
	s.app.Dispatch(app.AddTask{Text: "milk"})

	task, err := s.findTask("todo-1", "task")
	require.NoError(t, err)
	assert.Equal(t, "milk", task.Text)

	_, err = s.findTab("todo-1", "1")
	assert.EqualError(t, err, "note has no tabs")

	s.app.Dispatch(app.NewTab{})
	s.app.Dispatch(app.NewTab{})

	tab, err := s.findTab("todo-1", "tab 2")
	require.NoError(t, err)
	assert.Equal(t, "tab-2", tab.ID)

	tab, err = s.findTab("todo-1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, []string{tab.Tasks[0].Text})

	_, err = s.findTab("todo-1", "0")
	assert.EqualError(t, err, "no tab 0")
}

package views

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/ai"
	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/ocr"
	"github.com/kim-mac/aiopad/internal/todo"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	seq := 0
	a := app.New(context.Background(), app.Options{
		Now:          func() time.Time { return time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC) },
		Location:     time.UTC,
		BcryptCost:   4,
		NewID:        func() string { seq++; return fmt.Sprintf("id-%d", seq) },
		DefaultTheme: notes.Theme{Variant: "ocean", Mode: "dark"},
	})
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace}
)

func send(m tea.Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m tea.Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

func TestNoteListCreatesAndOpens(t *testing.T) {
	a := newApp(t)
	v := NewNoteListView(a)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})

	cmd := send(v, runes("n"), runes("2"))
	require.NotNil(t, cmd)
	opened, ok := cmd().(OpenedNote)
	require.True(t, ok)

	n, ok := a.Note(opened.ID)
	require.True(t, ok)
	assert.Equal(t, models.NoteTypeTodo, n.Type)
	assert.Contains(t, v.View(), "New To-Do List")
}

func TestNoteListFlagsAndMarks(t *testing.T) {
	a := newApp(t)
	a.Dispatch(app.CreateNote{})
	a.Dispatch(app.CreateNote{})
	v := NewNoteListView(a)

	n, _ := v.selected()
	send(v, runes("p"), runes("*"))
	got, _ := a.Note(n.ID)
	assert.True(t, got.IsPinned)
	assert.True(t, got.IsFavorite)

	send(v, space)
	assert.Equal(t, []string{n.ID}, a.MarkedIDs())
	send(v, runes("D"), runes("y"))
	_, ok := a.Note(n.ID)
	assert.False(t, ok)
	assert.Len(t, a.Notes(), 1)
}

func TestNoteListLockAndUnlock(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{}).NoteID
	v := NewNoteListView(a)

	send(v, runes("L"))
	typeText(v, "abc")
	send(v, enter)
	typeText(v, "abc")
	send(v, enter)
	assert.Contains(t, v.View(), app.MsgPasswordTooShort)
	n, _ := a.Note(id)
	assert.False(t, n.IsLocked)

	send(v, esc, runes("L"))
	typeText(v, "secret")
	send(v, enter)
	typeText(v, "secret")
	send(v, enter)
	n, _ = a.Note(id)
	require.True(t, n.IsLocked)

	send(v, enter)
	typeText(v, "wrong")
	send(v, enter)
	assert.Contains(t, v.View(), app.MsgWrongPassword)

	send(v, esc, enter)
	typeText(v, "secret")
	cmd := send(v, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, OpenedNote{ID: id}, cmd())
	n, _ = a.Note(id)
	assert.False(t, n.IsLocked)
}

type unreadableStore struct{}

func (unreadableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}
func (unreadableStore) Set(context.Context, string, []byte) error { return nil }

func TestNoteListWarnsInMemoryOnlyMode(t *testing.T) {
	a := app.New(context.Background(), app.Options{Store: unreadableStore{}, BcryptCost: 4})
	t.Cleanup(func() { a.Close(context.Background()) })
	v := NewNoteListView(a)
	send(v, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, v.View(), app.MsgMemoryOnly)
}

func TestNoteListSearchAndTheme(t *testing.T) {
	a := newApp(t)
	first := a.Dispatch(app.CreateNote{}).NoteID
	a.Dispatch(app.EditNote{ID: first, Title: ptr("Groceries")})
	a.Dispatch(app.CreateNote{})
	v := NewNoteListView(a)

	send(v, runes("/"))
	typeText(v, "groc")
	send(v, enter)
	assert.Len(t, v.list.Items(), 1)

	cmd := send(v, runes("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, ThemeChanged{}, cmd())
	assert.Equal(t, notes.Theme{Variant: "ocean", Mode: "light"}, a.State().Theme)
}

func ptr(s string) *string { return &s }

func TestEditorSavesTitleAndContent(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{}).NoteID
	v := NewEditorView(a, Services{}, id)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})

	typeText(v, "hello world")
	send(v, tab)
	assert.Equal(t, FocusTitle, v.focus)
	send(v, tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(v, "Greeting")

	cmd := send(v, esc)
	require.NotNil(t, cmd)
	assert.Equal(t, BackToNotes{}, cmd())

	n, _ := a.Note(id)
	assert.Equal(t, "Greeting", n.Title)
	assert.Equal(t, "hello world", n.Content)
}

func TestEditorTasks(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{Type: models.NoteTypeTodo}).NoteID
	v := NewEditorView(a, Services{}, id)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})
	require.Equal(t, FocusTasks, v.focus)

	send(v, runes("n"))
	typeText(v, "water plants")
	send(v, enter)
	send(v, runes("n"))
	typeText(v, "pay rent")
	send(v, enter)

	tasks := a.Tasks()
	require.Len(t, tasks, 2)

	// toggle and prioritise the task under the cursor
	target := tasks[0].ID
	send(v, space, runes("p"), runes("p"), runes("p"), runes("y"))
	n, _ := a.Note(id)
	got, ok := todo.Find(models.CurrentTasks(n.Tasks), target)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.TaskTypeDaily, got.TaskType)
	assert.Equal(t, target, a.Tasks()[v.cursor].ID, "cursor follows the edited task")

	send(v, runes("u"))
	typeText(v, "2024-06-01")
	send(v, enter)
	n, _ = a.Note(id)
	got, _ = todo.Find(models.CurrentTasks(n.Tasks), target)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-06-01", got.DueDate.Format(todo.DateLayout))

	send(v, runes("f"))
	assert.Equal(t, todo.ShowPending, a.State().TaskView.FilterCompleted)
	assert.Len(t, a.Tasks(), 1)

	send(v, runes("T"))
	n, _ = a.Note(id)
	tabs, ok := n.Tasks.(models.TabbedTasks)
	require.True(t, ok)
	assert.Len(t, tabs.Tabs[0].Tasks, 2, "first tab adopts the existing tasks")

	assert.Contains(t, v.View(), "Tab 1")
}

type fakeAssistant struct {
	result ai.Result
	err    error
}

func (f fakeAssistant) Transform(ctx context.Context, kind ai.Kind, text string) (ai.Result, error) {
	return f.result, f.err
}

func TestEditorAssistantMergesOnSuccess(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{}).NoteID
	a.Dispatch(app.EditNote{ID: id, Content: ptr("draft")})

	v := NewEditorView(a, Services{AI: fakeAssistant{result: ai.Result{Text: "polished"}}}, id)
	send(v, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Equal(t, editAIMenu, v.mode)
	send(v, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	cmd := send(v, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, editBusy, v.mode)

	send(v, cmd())
	assert.Equal(t, editNormal, v.mode)
	n, _ := a.Note(id)
	assert.Equal(t, "polished", n.Content)
	assert.Equal(t, "polished", v.content.Value())
}

func TestEditorAssistantFailureLeavesNote(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{}).NoteID
	a.Dispatch(app.EditNote{ID: id, Content: ptr("draft")})

	v := NewEditorView(a, Services{AI: fakeAssistant{err: errors.New("boom")}}, id)
	send(v, tea.KeyMsg{Type: tea.KeyCtrlG})
	cmd := send(v, enter)
	send(v, cmd())

	n, _ := a.Note(id)
	assert.Equal(t, "draft", n.Content)
	assert.True(t, v.statusErr)
	assert.Contains(t, v.status, "boom")
}

type fakeRecognizer struct{ text string }

func (f fakeRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f.text, nil
}

func TestEditorRecognizesHandwriting(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{Type: models.NoteTypeHandwriting}).NoteID
	a.Dispatch(app.EditNote{ID: id, Content: ptr("page one")})

	strokes := filepath.Join(t.TempDir(), "ink.json")
	require.NoError(t, writeFile(strokes, `[{"points":[{"x":1,"y":1},{"x":9,"y":9}]}]`))

	v := NewEditorView(a, Services{OCR: fakeRecognizer{text: "page two"}}, id)
	send(v, tea.KeyMsg{Type: tea.KeyCtrlO})
	typeText(v, strokes)
	cmd := send(v, enter)
	require.NotNil(t, cmd)
	send(v, cmd())

	n, _ := a.Note(id)
	assert.Equal(t, "page one\n\npage two", n.Content)
}

func TestEditorExports(t *testing.T) {
	a := newApp(t)
	id := a.Dispatch(app.CreateNote{}).NoteID
	a.Dispatch(app.EditNote{ID: id, Title: ptr("Trip"), Content: ptr("pack bags")})

	dir := t.TempDir()
	v := NewEditorView(a, Services{ExportDir: dir}, id)
	send(v, tea.KeyMsg{Type: tea.KeyCtrlX})
	send(v, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, enter)

	data, err := readFile(filepath.Join(dir, "Trip.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Trip\n\npack bags", data)
	assert.Contains(t, v.status, "Trip.txt")
}

var _ ocr.Recognizer = fakeRecognizer{}

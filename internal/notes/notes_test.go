package notes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/kv"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/models"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// fakeClock advances one minute per reading
func fakeClock() Clock {
	t := base
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func titles(list []models.Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Title
	}
	return out
}

func note(id, title string, pinned bool) models.Note {
	return models.Note{ID: id, Title: title, Type: models.NoteTypeNote, IsPinned: pinned, CreatedAt: base, LastModified: base}
}

func TestNew(t *testing.T) {
	n := New("a", models.NoteTypeTodo, base)
	assert.Equal(t, "New To-Do List", n.Title)
	assert.Equal(t, base, n.CreatedAt)
	assert.Equal(t, base, n.LastModified)
	assert.Equal(t, models.LegacyTasks{Tasks: []models.Task{}}, n.Tasks)

	h := New("b", models.NoteTypeHandwriting, base)
	assert.Equal(t, "New Handwriting Note", h.Title)
	assert.Nil(t, h.Tasks)
}

func TestStoreMutations(t *testing.T) {
	s := NewStore(nil, fakeClock())
	var snapshots [][]models.Note
	s.OnChange = func(list []models.Note) { snapshots = append(snapshots, list) }

	s.Add(note("1", "first", false))
	s.Add(note("2", "second", false))
	assert.Equal(t, []string{"second", "first"}, titles(s.All()), "add prepends")

	ok := s.Update("1", func(n *models.Note) {
		n.Title = "renamed"
		n.ID = "hijack"
	})
	require.True(t, ok)
	got, found := s.Get("1")
	require.True(t, found)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, base.Add(time.Minute), got.LastModified)
	assert.True(t, !got.LastModified.Before(got.CreatedAt))

	assert.False(t, s.Update("missing", func(n *models.Note) { n.Title = "x" }))
	assert.Len(t, snapshots, 3, "no-op update does not notify")

	assert.True(t, s.Remove("2"))
	assert.False(t, s.Remove("2"))
	assert.Equal(t, 1, s.Len())
	assert.Len(t, snapshots, 4)

	s.Add(note("3", "third", false))
	s.Add(note("4", "fourth", false))
	assert.Equal(t, 2, s.RemoveMany([]string{"1", "4", "nope"}))
	assert.Equal(t, []string{"third"}, titles(s.All()))
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	s := NewStore([]models.Note{note("1", "a", false)}, fakeClock())
	snap := s.All()

	s.Update("1", func(n *models.Note) { n.Title = "b" })
	assert.Equal(t, "a", snap[0].Title)

	got, _ := s.Get("1")
	got.Title = "c"
	again, _ := s.Get("1")
	assert.Equal(t, "b", again.Title)
}

func TestDeriveTitleSortWithPins(t *testing.T) {
	list := []models.Note{
		note("1", "B", true),
		note("2", "D", false),
		note("3", "A", true),
		note("4", "C", false),
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, titles(Derive(list, ViewOptions{Sort: TitleAsc})))
	assert.Equal(t, []string{"B", "A", "D", "C"}, titles(Derive(list, ViewOptions{Sort: TitleDesc})))
}

func TestDerivePinnedAlwaysFirst(t *testing.T) {
	var list []models.Note
	for i, title := range []string{"zeta", "alpha", "Mu", "beta", "Omega", "gamma"} {
		n := note(title, title, i%2 == 0)
		n.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		n.LastModified = base.Add(time.Duration(6-i) * time.Hour)
		list = append(list, n)
	}

	for _, by := range Sorts() {
		got := Derive(list, ViewOptions{Sort: by})
		require.Len(t, got, len(list))
		seenUnpinned := false
		for _, n := range got {
			if !n.IsPinned {
				seenUnpinned = true
			} else {
				assert.False(t, seenUnpinned, "pinned note %q after an unpinned one for %s", n.Title, by)
			}
		}
		assert.Equal(t, got, Derive(got, ViewOptions{Sort: by}), "stable for %s", by)
	}
}

func TestDeriveDateSortsAndSearch(t *testing.T) {
	a := note("a", "Shopping list", false)
	a.CreatedAt, a.LastModified = base, base.Add(3*time.Hour)
	b := note("b", "Work", false)
	b.CreatedAt, b.LastModified = base.Add(time.Hour), base.Add(time.Hour)
	c := note("c", "shop hours", false)
	c.CreatedAt, c.LastModified = base.Add(2*time.Hour), base.Add(2*time.Hour)
	list := []models.Note{a, b, c}

	assert.Equal(t, []string{"Shopping list", "shop hours", "Work"}, titles(Derive(list, ViewOptions{})))
	assert.Equal(t, []string{"Work", "shop hours", "Shopping list"}, titles(Derive(list, ViewOptions{Sort: ModifiedAsc})))
	assert.Equal(t, []string{"shop hours", "Work", "Shopping list"}, titles(Derive(list, ViewOptions{Sort: CreatedDesc})))
	assert.Equal(t, []string{"Shopping list", "Work", "shop hours"}, titles(Derive(list, ViewOptions{Sort: CreatedAsc})))

	assert.Equal(t, []string{"Shopping list", "shop hours"}, titles(Derive(list, ViewOptions{Query: "SHOP"})))
	assert.Empty(t, Derive(list, ViewOptions{Query: "garden"}))
}

func TestSplit(t *testing.T) {
	fav := note("1", "fav", false)
	fav.IsFavorite = true
	favArchived := note("2", "fav archived", false)
	favArchived.IsFavorite, favArchived.IsArchived = true, true
	plain := note("3", "plain", false)
	archived := note("4", "archived", false)
	archived.IsArchived = true

	s := Split([]models.Note{plain, favArchived, fav, archived})
	assert.Equal(t, []string{"fav"}, titles(s.Favorites))
	assert.Equal(t, []string{"plain"}, titles(s.Active))
	assert.Equal(t, []string{"fav archived", "archived"}, titles(s.Archived))
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("title-desc")
	require.NoError(t, err)
	assert.Equal(t, TitleDesc, s)
	_, err = ParseSort("random")
	assert.Error(t, err)
}

func TestContentHelpers(t *testing.T) {
	assert.Equal(t, "hello", AppendText("", "hello"))
	assert.Equal(t, "first\n\nsecond", AppendText("first", "second"))
	assert.Equal(t, 3, WordCount("  one two\nthree "))
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 5, CharCount("héllo"))
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("abcd", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "abcd", hash)

	ok, err := CheckPassword(hash, "abcd")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "abcd")
	assert.Error(t, err)
}

func TestPasswordsLongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("a", 80)
	hash, err := HashPassword(long, 4)
	require.NoError(t, err)

	ok, err := CheckPassword(hash, long)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, long[:72])
	require.NoError(t, err)
	assert.False(t, ok, "bytes past 72 still count")
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	log := logger.Nop()

	empty, err := Load(ctx, store, log, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)

	todo := New("t", models.NoteTypeTodo, base)
	todo.Tasks = models.LegacyTasks{Tasks: []models.Task{{ID: "x", Text: "milk", TaskType: models.TaskTypeDaily, CreatedAt: base}}}
	list := []models.Note{todo, note("n", "plain", true)}
	require.NoError(t, Save(ctx, store, list))

	got, err := Load(ctx, store, log, 4)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestLoadCorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyNotes, []byte("{{{")))

	got, err := Load(ctx, store, logger.Nop(), 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Set(context.Context, string, []byte) error   { return errors.New("disk on fire") }

func TestLoadStoreFailure(t *testing.T) {
	got, err := Load(context.Background(), brokenStore{}, logger.Nop(), 4)
	assert.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadMigratesLegacyData(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, KeyNotes, []byte(`[
		{"id": "dup", "title": "secret", "content": "", "type": "note",
		 "lastModified": "2024-01-01T00:00:00Z", "createdAt": "2024-01-01T00:00:00Z",
		 "isLocked": true, "password": "abcd"},
		{"id": "dup", "title": "copy", "content": "", "type": "note",
		 "lastModified": "2024-01-01T00:00:00Z", "createdAt": "2024-01-01T00:00:00Z"},
		{"title": "no id", "content": "", "type": "note",
		 "lastModified": "2024-01-01T00:00:00Z", "createdAt": "2024-01-01T00:00:00Z",
		 "isLocked": true}
	]`)))

	got, err := Load(ctx, store, logger.Nop(), 4)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "dup", got[0].ID)
	assert.Empty(t, got[0].LegacyPassword)
	assert.True(t, got[0].IsLocked)
	ok, err := CheckPassword(got[0].PasswordHash, "abcd")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NotEqual(t, "dup", got[1].ID)
	assert.NotEmpty(t, got[2].ID)
	assert.False(t, got[2].IsLocked, "a lock without any password cannot be opened")
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	theme, err := LoadTheme(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, theme)

	require.NoError(t, store.Set(ctx, KeyThemeVariant, []byte("sunset")))
	theme, err = LoadTheme(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, theme, "both keys are required")

	require.NoError(t, SaveTheme(ctx, store, Theme{Variant: "forest", Mode: "light"}))
	theme, err = LoadTheme(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, &Theme{Variant: "forest", Mode: "light"}, theme)

	_, err = LoadTheme(ctx, brokenStore{})
	assert.Error(t, err)
}

func TestPersister(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := NewPersister(store, logger.Nop(), nil)

	s := NewStore(nil, fakeClock())
	s.OnChange = p.Save
	for i := 0; i < 20; i++ {
		s.Add(note(string(rune('a'+i)), "n", false))
	}
	require.NoError(t, p.Flush(ctx))

	got, err := Load(ctx, store, logger.Nop(), 4)
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, "t", got[0].ID)

	require.NoError(t, p.Close(ctx))
}

func TestPersisterReportsWriteErrors(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(brokenStore{}, logger.Nop(), nil)
	defer p.Close(context.Background())

	p.Save([]models.Note{note("1", "x", false)})
	assert.Error(t, p.Flush(ctx))
}

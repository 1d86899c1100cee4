package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/models"
)

func TestTextRendersChecklist(t *testing.T) {
	n := models.Note{Type: models.NoteTypeTodo, Content: "ignored", Tasks: models.LegacyTasks{Tasks: []models.Task{
		{ID: "1", Text: "milk", Completed: true},
		{ID: "2", Text: "eggs"},
	}}}
	assert.Equal(t, "[x] milk\n[ ] eggs", Text(n))
	assert.Equal(t, "body", Text(models.Note{Type: models.NoteTypeNote, Content: "body"}))
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "Trip.txt")
	require.NoError(t, WriteFile(path, TXT, models.Note{Title: "Trip", Content: "pack"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Trip\n\npack", string(data))
}

package notes

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kim-mac/aiopad/internal/models"
)

// New builds an empty note of the given type. Todo notes start with an
// empty legacy task list.
func New(id string, typ models.NoteType, now time.Time) models.Note {
	n := models.Note{
		ID:           id,
		Title:        typ.DefaultTitle(),
		Type:         typ,
		CreatedAt:    now,
		LastModified: now,
	}
	if typ == models.NoteTypeTodo {
		n.Tasks = models.LegacyTasks{Tasks: []models.Task{}}
	}
	return n
}

// AppendText adds recognised text below existing content, separated by a blank line
func AppendText(content, text string) string {
	if content == "" {
		return text
	}
	return content + "\n\n" + text
}

// WordCount counts whitespace separated words
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// CharCount counts characters, not bytes
func CharCount(content string) int {
	return utf8.RuneCountInString(content)
}

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kim-mac/aiopad/internal/models"
)

// Text is what gets exported for a note: its content, or the current task
// list rendered as a checklist for todo notes
func Text(n models.Note) string {
	if n.Type != models.NoteTypeTodo {
		return n.Content
	}
	var b strings.Builder
	for _, t := range models.CurrentTasks(n.Tasks) {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, t.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// WriteFile exports n to path, creating the parent directory
func WriteFile(path string, format Format, n models.Note) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, n.Title, Text(n))
}

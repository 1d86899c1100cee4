package main

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/todo"
)

const (
	shortIDLen        = 8
	tableCellMaxWidth = 50
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func formatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(row))
		for i, cell := range row {
			cell = truncate.StringWithTail(normalizeTableCell(cell), tableCellMaxWidth, "...")
			cells[r][i] = cell
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			b.WriteString(cell)
			if i == len(row)-1 {
				b.WriteByte('\n')
				continue
			}
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
	}
	writeRow(headers)
	for _, row := range cells {
		writeRow(row)
	}
	return b.String()
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

// noteJSON is the command line view of a note; lock hashes are left out
type noteJSON struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Type         models.NoteType `json:"type"`
	Content      string          `json:"content,omitempty"`
	Color        models.Color    `json:"color,omitempty"`
	Pinned       bool            `json:"pinned"`
	Favorite     bool            `json:"favorite"`
	Archived     bool            `json:"archived"`
	Locked       bool            `json:"locked"`
	Words        int             `json:"words"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastModified time.Time       `json:"lastModified"`
	Tasks        []models.Task   `json:"tasks,omitempty"`
	Tabs         []tabJSON       `json:"tabs,omitempty"`
}

type tabJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Tasks  int    `json:"tasks"`
	Done   int    `json:"done"`
}

func toNoteJSON(n models.Note, withContent bool) noteJSON {
	out := noteJSON{
		ID:           n.ID,
		Title:        n.Title,
		Type:         n.Type,
		Color:        n.Color,
		Pinned:       n.IsPinned,
		Favorite:     n.IsFavorite,
		Archived:     n.IsArchived,
		Locked:       n.IsLocked,
		CreatedAt:    n.CreatedAt,
		LastModified: n.LastModified,
	}
	if n.IsLocked {
		return out
	}
	out.Words = notes.WordCount(n.Content)
	if withContent {
		out.Content = n.Content
		out.Tasks = models.CurrentTasks(n.Tasks)
		out.Tabs = tabsJSON(n.Tasks)
	}
	return out
}

func tabsJSON(src models.TaskSource) []tabJSON {
	tabbed, ok := src.(models.TabbedTasks)
	if !ok {
		return nil
	}
	out := make([]tabJSON, 0, len(tabbed.Tabs))
	for _, t := range tabbed.Tabs {
		out = append(out, tabJSON{
			ID:     t.ID,
			Name:   t.Name,
			Active: t.ID == tabbed.ActiveTabID,
			Tasks:  todo.Total(t.Tasks),
			Done:   todo.Completed(t.Tasks),
		})
	}
	return out
}

// flags renders the sidebar markers of a note
func flags(n models.Note) string {
	var b strings.Builder
	for _, f := range []struct {
		on   bool
		mark string
	}{
		{n.IsPinned, "P"},
		{n.IsFavorite, "*"},
		{n.IsArchived, "A"},
		{n.IsLocked, "L"},
	} {
		if f.on {
			b.WriteString(f.mark)
		} else {
			b.WriteString("-")
		}
	}
	return b.String()
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(todo.DateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

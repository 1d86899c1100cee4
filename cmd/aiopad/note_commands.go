package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/export"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/ui/markdown"
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes"},
	Short:   "Manage notes",
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first",
	Args:  cobra.NoArgs,
	RunE:  withSession(runNoteList),
}

var noteNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note and print its id",
	Args:  cobra.NoArgs,
	RunE:  withSession(runNoteNew),
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNoteShow),
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or content of a note",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNoteEdit),
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete notes",
	Args:    cobra.MinimumNArgs(1),
	RunE:    withSession(runNoteDelete),
}

var notePinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNotePin),
}

var noteFavoriteCmd = &cobra.Command{
	Use:     "favorite <id>",
	Aliases: []string{"fav"},
	Short:   "Add or remove a note from favorites",
	Args:    cobra.ExactArgs(1),
	RunE:    withSession(runNoteFavorite),
}

var noteArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a note, or restore it with --undo",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNoteArchive),
}

var noteColorCmd = &cobra.Command{
	Use:   "color <id> <color>",
	Short: "Tag a note with a color, or clear it with none",
	Args:  cobra.ExactArgs(2),
	RunE:  withSession(runNoteColor),
}

var noteLockCmd = &cobra.Command{
	Use:   "lock <id>",
	Short: "Lock a note behind a password",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNoteLock),
}

var noteUnlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "Remove the password from a note",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runNoteUnlock),
}

var (
	noteListJSON     bool
	noteListSort     string
	noteListSearch   string
	noteListArchived bool

	noteNewType    string
	noteNewTitle   string
	noteNewContent string
	noteNewJSON    bool

	noteShowJSON   bool
	noteShowRender bool

	noteEditTitle   string
	noteEditContent string
	noteEditAppend  string

	noteArchiveUndo bool

	notePassword string
	noteConfirm  string
)

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteListCmd, noteNewCmd, noteShowCmd, noteEditCmd, noteDeleteCmd,
		notePinCmd, noteFavoriteCmd, noteArchiveCmd, noteColorCmd, noteLockCmd, noteUnlockCmd)

	noteListCmd.Flags().BoolVar(&noteListJSON, "json", false, "output as JSON")
	noteListCmd.Flags().StringVar(&noteListSort, "sort", string(notes.ModifiedDesc), "ordering: "+joinSorts())
	noteListCmd.Flags().StringVar(&noteListSearch, "search", "", "only notes whose title contains this text")
	noteListCmd.Flags().BoolVar(&noteListArchived, "archived", false, "include archived notes")

	noteNewCmd.Flags().StringVar(&noteNewType, "type", string(models.NoteTypeNote), "note type: note, todo or handwriting")
	noteNewCmd.Flags().StringVar(&noteNewTitle, "title", "", "note title")
	noteNewCmd.Flags().StringVar(&noteNewContent, "content", "", "note content, - reads stdin")
	noteNewCmd.Flags().BoolVar(&noteNewJSON, "json", false, "output as JSON")

	noteShowCmd.Flags().BoolVar(&noteShowJSON, "json", false, "output as JSON")
	noteShowCmd.Flags().BoolVar(&noteShowRender, "render", false, "render content as markdown")

	noteEditCmd.Flags().StringVar(&noteEditTitle, "title", "", "new title")
	noteEditCmd.Flags().StringVar(&noteEditContent, "content", "", "new content, - reads stdin")
	noteEditCmd.Flags().StringVar(&noteEditAppend, "append", "", "text to add below the content")

	noteArchiveCmd.Flags().BoolVar(&noteArchiveUndo, "undo", false, "restore the note")

	noteLockCmd.Flags().StringVar(&notePassword, "password", "", "lock password")
	noteLockCmd.Flags().StringVar(&noteConfirm, "confirm", "", "password confirmation (defaults to --password)")
	noteUnlockCmd.Flags().StringVar(&notePassword, "password", "", "lock password")
}

func joinSorts() string {
	names := make([]string, 0, len(notes.Sorts()))
	for _, s := range notes.Sorts() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func runNoteList(cmd *cobra.Command, s *session, args []string) error {
	sort, err := notes.ParseSort(noteListSort)
	if err != nil {
		return err
	}
	s.app.Dispatch(app.SetNoteView{Options: notes.ViewOptions{Sort: sort, Query: noteListSearch}})
	sections := s.app.Visible()

	list := append(append([]models.Note{}, sections.Favorites...), sections.Active...)
	if noteListArchived {
		list = append(list, sections.Archived...)
	}

	out := cmd.OutOrStdout()
	if noteListJSON {
		items := make([]noteJSON, 0, len(list))
		for _, n := range list {
			items = append(items, toNoteJSON(n, false))
		}
		return encodeJSON(out, items)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No notes")
		return nil
	}

	now := s.app.Now()
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		rows = append(rows, []string{shortID(n.ID), flags(n), string(n.Type), n.Title, formatAge(n.LastModified, now)})
	}
	fmt.Fprint(out, formatTable([]string{"ID", "FLAGS", "TYPE", "TITLE", "MODIFIED"}, rows))
	return nil
}

func runNoteNew(cmd *cobra.Command, s *session, args []string) error {
	typ := models.NoteType(noteNewType)
	if !typ.Valid() {
		return fmt.Errorf("unknown note type %q", noteNewType)
	}
	content, err := readArg(cmd.InOrStdin(), noteNewContent)
	if err != nil {
		return err
	}

	res := s.app.Dispatch(app.CreateNote{Type: typ})
	edit := app.EditNote{ID: res.NoteID}
	if cmd.Flags().Changed("title") {
		edit.Title = &noteNewTitle
	}
	if cmd.Flags().Changed("content") {
		edit.Content = &content
	}
	if edit.Title != nil || edit.Content != nil {
		if _, err := s.dispatch(edit); err != nil {
			return err
		}
	}

	n, _ := s.app.Note(res.NoteID)
	if noteNewJSON {
		return encodeJSON(cmd.OutOrStdout(), toNoteJSON(n, true))
	}
	fmt.Fprintln(cmd.OutOrStdout(), n.ID)
	return nil
}

func runNoteShow(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if n.IsLocked {
		return errors.New(app.MsgLocked)
	}
	// opening a to-do note is what resets its daily tasks
	if n.Type == models.NoteTypeTodo {
		if n, err = s.openTodo(n.ID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if noteShowJSON {
		return encodeJSON(out, toNoteJSON(n, true))
	}

	fmt.Fprintf(out, "%s\n", n.Title)
	fmt.Fprintf(out, "id: %s  type: %s  flags: %s  color: %s\n", n.ID, n.Type, flags(n), orDash(string(n.Color)))
	fmt.Fprintf(out, "words: %d  characters: %d  modified: %s\n\n",
		notes.WordCount(n.Content), notes.CharCount(n.Content), n.LastModified.Format(time.DateTime))

	body := export.Text(n)
	if noteShowRender && n.Type != models.NoteTypeTodo {
		body = markdown.Render(body, 80, markdown.ASCII)
	}
	fmt.Fprintln(out, body)
	return nil
}

func runNoteEdit(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}

	edit := app.EditNote{ID: n.ID}
	if cmd.Flags().Changed("title") {
		edit.Title = &noteEditTitle
	}
	if cmd.Flags().Changed("content") {
		content, err := readArg(cmd.InOrStdin(), noteEditContent)
		if err != nil {
			return err
		}
		edit.Content = &content
	}
	if edit.Title == nil && edit.Content == nil && !cmd.Flags().Changed("append") {
		return errors.New("nothing to change: use --title, --content or --append")
	}

	if edit.Title != nil || edit.Content != nil {
		if _, err := s.dispatch(edit); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("append") {
		if n.IsLocked {
			return errors.New(app.MsgLocked)
		}
		if _, err := s.dispatch(app.AppendText{ID: n.ID, Text: noteEditAppend}); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(n.ID))
	return nil
}

func runNoteDelete(cmd *cobra.Command, s *session, args []string) error {
	ids := make([]string, 0, len(args))
	for _, ref := range args {
		n, err := s.findNote(ref)
		if err != nil {
			return err
		}
		ids = append(ids, n.ID)
	}
	s.app.Dispatch(app.DeleteNotes{IDs: ids})
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d note(s)\n", len(ids))
	return nil
}

func runNotePin(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.TogglePin{ID: n.ID})
	n, _ = s.app.Note(n.ID)
	fmt.Fprintln(cmd.OutOrStdout(), onOff("Pinned", "Unpinned", n.IsPinned))
	return nil
}

func runNoteFavorite(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.ToggleFavorite{ID: n.ID})
	n, _ = s.app.Note(n.ID)
	fmt.Fprintln(cmd.OutOrStdout(), onOff("Added to favorites", "Removed from favorites", n.IsFavorite))
	return nil
}

func runNoteArchive(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.SetArchived{ID: n.ID, Archived: !noteArchiveUndo})
	fmt.Fprintln(cmd.OutOrStdout(), onOff("Archived", "Restored", !noteArchiveUndo))
	return nil
}

func runNoteColor(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	color := models.Color(strings.ToLower(args[1]))
	if color == "none" {
		color = models.ColorNone
	}
	if _, err := s.dispatch(app.SetColor{ID: n.ID, Color: color}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Color set to %s\n", orDash(string(color)))
	return nil
}

func runNoteLock(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if n.IsLocked {
		return errors.New("note is already locked")
	}
	confirm := noteConfirm
	if !cmd.Flags().Changed("confirm") {
		confirm = notePassword
	}
	if _, err := s.dispatch(app.LockNote{ID: n.ID, Password: notePassword, Confirm: confirm}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Locked")
	return nil
}

func runNoteUnlock(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.findNote(args[0])
	if err != nil {
		return err
	}
	if !n.IsLocked {
		return errors.New("note is not locked")
	}
	if _, err := s.dispatch(app.UnlockNote{ID: n.ID, Password: notePassword}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Unlocked")
	return nil
}

// readArg returns value, or all of r when value is "-"
func readArg(r io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func onOff(on, off string, state bool) string {
	if state {
		return on
	}
	return off
}

// formatAge renders how long ago t was, like "5m ago"
func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format(time.DateOnly)
}

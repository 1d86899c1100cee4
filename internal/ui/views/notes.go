package views

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/ui/keys"
	"github.com/kim-mac/aiopad/internal/ui/styles"
)

// section labels shown under each note
const (
	sectionFavorites = "Favorites"
	sectionNotes     = "Notes"
	sectionArchived  = "Archived"
)

type noteItem struct {
	note    models.Note
	section string
	marked  bool
}

func (i noteItem) Title() string { return i.note.Title }
func (i noteItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.section, i.note.Type, i.note.LastModified.Format("Jan 2 15:04"))
}
func (i noteItem) FilterValue() string { return i.note.Title }

type noteDelegate struct {
	styles *styles.Styles
	width  int
}

func (d noteDelegate) Height() int                               { return 2 }
func (d noteDelegate) Spacing() int                              { return 1 }
func (d noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s",
		titleStyle.Render(truncate.StringWithTail(d.markers(it)+it.Title(), uint(width-4), "…")),
		descStyle.Render(it.Description()),
	)
}

// markers prefixes the title with mark, color, pin, favorite and lock glyphs
func (d noteDelegate) markers(it noteItem) string {
	var b strings.Builder
	if it.marked {
		b.WriteString(d.styles.Marked.Render("✓") + " ")
	}
	if hex := it.note.Color.Hex(); hex != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●") + " ")
	}
	if it.note.IsPinned {
		b.WriteString(d.styles.Pinned.Render("▲") + " ")
	}
	if it.note.IsFavorite {
		b.WriteString(d.styles.Pinned.Render("★") + " ")
	}
	if it.note.IsLocked {
		b.WriteString(d.styles.Locked.Render("[locked]") + " ")
	}
	return b.String()
}

// OpenedNote asks the app to show the editor for the selected note
type OpenedNote struct {
	ID string
}

// ThemeChanged asks every view to rebuild its styles
type ThemeChanged struct{}

type listMode int

const (
	listNormal listMode = iota
	listSearching
	listCreating
	listConfirmDelete
	listConfirmDeleteMarked
	listLocking
	listUnlocking
	listColoring
)

// NoteListView is the sidebar: favorites, notes and the archive
type NoteListView struct {
	app      *app.App
	list     list.Model
	delegate *noteDelegate
	search   textinput.Model
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	mode     listMode

	target      models.Note
	password    textinput.Model
	confirm     textinput.Model
	focusIdx    int // 0=password, 1=confirm
	colorCursor int
	message     string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewNoteListView creates the note list
func NewNoteListView(a *app.App) *NoteListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	confirm := textinput.New()
	confirm.Placeholder = "Confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'
	confirm.CharLimit = 128

	delegate := &noteDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Notes"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	v := &NoteListView{
		app:      a,
		list:     l,
		delegate: delegate,
		search:   search,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		password: password,
		confirm:  confirm,
	}
	v.Refresh()
	return v
}

// Restyle picks up the current theme
func (v *NoteListView) Restyle() {
	v.styles = styles.NewStyles()
	v.delegate.styles = v.styles
	v.list.Styles.Title = v.styles.Title
}

func (v *NoteListView) Init() tea.Cmd {
	return nil
}

// Refresh rebuilds the items from app state, keeping the cursor on the
// same note when it is still listed
func (v *NoteListView) Refresh() {
	var current string
	if it, ok := v.list.SelectedItem().(noteItem); ok {
		current = it.note.ID
	}

	sections := v.app.Visible()
	marked := v.app.State().Marked
	var items []list.Item
	add := func(label string, group []models.Note) {
		for _, n := range group {
			items = append(items, noteItem{note: n, section: label, marked: marked[n.ID]})
		}
	}
	add(sectionFavorites, sections.Favorites)
	add(sectionNotes, sections.Active)
	add(sectionArchived, sections.Archived)
	v.list.SetItems(items)

	idx := slices.IndexFunc(items, func(i list.Item) bool { return i.(noteItem).note.ID == current })
	switch {
	case idx >= 0:
		v.list.Select(idx)
	case v.list.Index() >= len(items):
		v.list.Select(max(0, len(items)-1))
	}
	v.list.Title = fmt.Sprintf("Notes (%d) · %s", len(items), sortLabel(v.app.State().NoteView.Sort))
}

func (v *NoteListView) selected() (models.Note, bool) {
	it, ok := v.list.SelectedItem().(noteItem)
	return it.note, ok
}

func (v *NoteListView) dispatch(cmd app.Command) app.Result {
	res := v.app.Dispatch(cmd)
	v.message = res.Message
	v.Refresh()
	return res
}

func (v *NoteListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-8)
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch v.mode {
		case listSearching:
			return v.updateSearching(msg)
		case listCreating:
			return v.updateCreating(msg)
		case listConfirmDelete, listConfirmDeleteMarked:
			return v.updateConfirmDelete(msg)
		case listLocking, listUnlocking:
			return v.updatePassword(msg)
		case listColoring:
			return v.updateColoring(msg)
		}
		return v.updateNormal(msg)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *NoteListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.message = ""
	n, ok := v.selected()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		if len(v.app.MarkedIDs()) > 0 {
			v.dispatch(app.ClearMarks{})
		}
		return v, nil
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	case key.Matches(msg, v.keys.New):
		v.mode = listCreating
		return v, nil
	case key.Matches(msg, v.keys.Search):
		v.mode = listSearching
		v.search.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Sort):
		opts := v.app.State().NoteView
		opts.Sort = cycle(notes.Sorts(), opts.Sort)
		v.dispatch(app.SetNoteView{Options: opts})
		return v, nil
	case key.Matches(msg, v.keys.Theme):
		th := v.app.State().Theme
		th.Variant = cycle(notes.ThemeVariants, th.Variant)
		return v, v.setTheme(th)
	case key.Matches(msg, v.keys.Mode):
		th := v.app.State().Theme
		th.Mode = cycle(notes.ThemeModes, th.Mode)
		return v, v.setTheme(th)
	case key.Matches(msg, v.keys.DelMarked):
		if len(v.app.MarkedIDs()) > 0 {
			v.mode = listConfirmDeleteMarked
		}
		return v, nil
	}

	if !ok {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keys.Enter):
		if n.IsLocked {
			v.startPassword(listUnlocking, n)
			return v, textinput.Blink
		}
		return v, v.open(n.ID)
	case key.Matches(msg, v.keys.Delete):
		v.mode = listConfirmDelete
		v.target = n
		return v, nil
	case key.Matches(msg, v.keys.Mark):
		v.dispatch(app.ToggleMark{ID: n.ID})
		return v, nil
	case key.Matches(msg, v.keys.Pin):
		v.dispatch(app.TogglePin{ID: n.ID})
		return v, nil
	case key.Matches(msg, v.keys.Favorite):
		v.dispatch(app.ToggleFavorite{ID: n.ID})
		return v, nil
	case key.Matches(msg, v.keys.Archive):
		v.dispatch(app.SetArchived{ID: n.ID, Archived: !n.IsArchived})
		return v, nil
	case key.Matches(msg, v.keys.Lock):
		if n.IsLocked {
			v.startPassword(listUnlocking, n)
		} else {
			v.startPassword(listLocking, n)
		}
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Color):
		v.mode = listColoring
		v.target = n
		v.colorCursor = max(0, slices.Index(colorChoices(), n.Color))
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *NoteListView) open(id string) tea.Cmd {
	res := v.dispatch(app.SelectNote{ID: id})
	if !res.Changed {
		return nil
	}
	return func() tea.Msg { return OpenedNote{ID: id} }
}

func (v *NoteListView) setTheme(th notes.Theme) tea.Cmd {
	if res := v.dispatch(app.SetTheme{Theme: th}); !res.Changed {
		return nil
	}
	return func() tea.Msg { return ThemeChanged{} }
}

func (v *NoteListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.search.Reset()
		v.search.Blur()
		v.mode = listNormal
		v.applyQuery()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.search.Blur()
		v.mode = listNormal
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.applyQuery()
	return v, cmd
}

func (v *NoteListView) applyQuery() {
	opts := v.app.State().NoteView
	if opts.Query == v.search.Value() {
		return
	}
	opts.Query = v.search.Value()
	v.dispatch(app.SetNoteView{Options: opts})
}

func (v *NoteListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var typ models.NoteType
	switch msg.String() {
	case "1", "n":
		typ = models.NoteTypeNote
	case "2", "t":
		typ = models.NoteTypeTodo
	case "3", "h":
		typ = models.NoteTypeHandwriting
	case "esc":
		v.mode = listNormal
		return v, nil
	default:
		return v, nil
	}
	v.mode = listNormal
	res := v.dispatch(app.CreateNote{Type: typ})
	return v, func() tea.Msg { return OpenedNote{ID: res.NoteID} }
}

func (v *NoteListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if v.mode == listConfirmDeleteMarked {
			v.dispatch(app.DeleteMarked{})
		} else {
			v.dispatch(app.DeleteNote{ID: v.target.ID})
		}
		v.mode = listNormal
		return v, nil
	case "n", "N", "esc":
		v.mode = listNormal
		return v, nil
	}
	return v, nil
}

func (v *NoteListView) startPassword(mode listMode, n models.Note) {
	v.mode = mode
	v.target = n
	v.focusIdx = 0
	v.message = ""
	v.password.Reset()
	v.confirm.Reset()
	v.updateFocus()
}

func (v *NoteListView) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = listNormal
		v.message = ""
		return v, nil

	case key.Matches(msg, v.keys.Tab), msg.String() == "shift+tab":
		if v.mode == listLocking {
			v.focusIdx = 1 - v.focusIdx
			v.updateFocus()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.mode == listLocking && v.focusIdx == 0 {
			v.focusIdx = 1
			v.updateFocus()
			return v, nil
		}
		return v, v.submitPassword()
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.password, cmd = v.password.Update(msg)
	} else {
		v.confirm, cmd = v.confirm.Update(msg)
	}
	return v, cmd
}

func (v *NoteListView) submitPassword() tea.Cmd {
	if v.mode == listLocking {
		res := v.dispatch(app.LockNote{ID: v.target.ID, Password: v.password.Value(), Confirm: v.confirm.Value()})
		if res.Message == "" {
			v.mode = listNormal
		}
		return nil
	}

	res := v.dispatch(app.UnlockNote{ID: v.target.ID, Password: v.password.Value()})
	if res.Message != "" {
		v.password.Reset()
		return nil
	}
	v.mode = listNormal
	return v.open(v.target.ID)
}

func (v *NoteListView) updateFocus() {
	v.password.Blur()
	v.confirm.Blur()
	if v.focusIdx == 0 {
		v.password.Focus()
	} else {
		v.confirm.Focus()
	}
}

// colorChoices is the palette plus "no color" at the end
func colorChoices() []models.Color {
	return append(models.Palette(), models.ColorNone)
}

func (v *NoteListView) updateColoring(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choices := colorChoices()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = listNormal
	case msg.String() == "left", msg.String() == "h", key.Matches(msg, v.keys.Up):
		v.colorCursor = (v.colorCursor + len(choices) - 1) % len(choices)
	case msg.String() == "right", msg.String() == "l", key.Matches(msg, v.keys.Down):
		v.colorCursor = (v.colorCursor + 1) % len(choices)
	case key.Matches(msg, v.keys.Enter):
		v.dispatch(app.SetColor{ID: v.target.ID, Color: choices[v.colorCursor]})
		v.mode = listNormal
	}
	return v, nil
}

// View renders the view
func (v *NoteListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	switch v.mode {
	case listCreating:
		return v.renderCreateChooser()
	case listConfirmDelete, listConfirmDeleteMarked:
		return v.renderDeleteConfirm()
	case listLocking, listUnlocking:
		return v.renderPasswordForm()
	case listColoring:
		return v.renderColorPicker()
	}

	if len(v.list.Items()) == 0 && v.app.State().NoteView.Query == "" {
		return v.renderEmpty()
	}

	parts := []string{}
	if v.mode == listSearching || v.search.Value() != "" {
		style := v.styles.Input
		if v.mode == listSearching {
			style = v.styles.InputFocused
		}
		parts = append(parts, style.Width(clamp(styles.ContentWidth(v.width)-6, 20, 60)).Render(v.search.View()))
	}
	parts = append(parts, v.list.View(), v.renderStatus(), v.renderHelp())
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *NoteListView) renderStatus() string {
	if v.message != "" {
		return v.styles.StatusError.Render(v.message)
	}
	if v.app.StorageErr() != nil {
		return v.styles.StatusError.Render(app.MsgMemoryOnly)
	}
	if n := len(v.app.MarkedIDs()); n > 0 {
		return v.styles.StatusBar.Render(fmt.Sprintf("%d marked · D delete · esc clear", n))
	}
	th := v.app.State().Theme
	return v.styles.StatusBar.Render(th.Variant + " " + th.Mode)
}

func (v *NoteListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Notes"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first note"),
		"",
		s.ButtonPrimary.Render(" New Note "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NoteListView) renderCreateChooser() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New"),
		"",
		s.HelpKey.Render("1")+"  note",
		s.HelpKey.Render("2")+"  to-do list",
		s.HelpKey.Render("3")+"  handwriting",
		"",
		s.TitleMuted.Render("Esc: cancel"),
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NoteListView) renderPasswordForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	pwStyle, confirmStyle := s.Input, s.Input
	if v.focusIdx == 0 {
		pwStyle = s.InputFocused
	} else {
		confirmStyle = s.InputFocused
	}

	title := "Unlock Note"
	rows := []string{pwStyle.Width(inputWidth).Render(v.password.View())}
	if v.mode == listLocking {
		title = "Lock Note"
		rows = append(rows, "", confirmStyle.Width(inputWidth).Render(v.confirm.View()))
	}

	parts := append([]string{s.Title.Render(title), s.TitleMuted.Render(v.target.Title), ""}, rows...)
	if v.message != "" {
		parts = append(parts, "", s.StatusError.Render(v.message))
	}
	parts = append(parts, "", s.TitleMuted.Render("↵: confirm • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NoteListView) renderColorPicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var swatches []string
	for i, c := range colorChoices() {
		label := "none"
		style := s.ListItem
		if hex := c.Hex(); hex != "" {
			label = string(c)
			style = style.Foreground(lipgloss.Color(hex))
		}
		if i == v.colorCursor {
			style = style.Background(styles.Current.Selection).Bold(true)
		}
		swatches = append(swatches, style.Render("● "+label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Color"), ""}, append(swatches, "", s.TitleMuted.Render("↑↓: choose • ↵: apply • Esc: cancel"))...)...,
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NoteListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 70 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s del • %s search • %s sort • %s pin • %s fav • %s archive • %s lock • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("*"),
			v.styles.HelpKey.Render("a"),
			v.styles.HelpKey.Render("L"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *NoteListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open note",
		s.HelpKey.Render("n") + "      new note",
		s.HelpKey.Render("d") + "      delete note",
		s.HelpKey.Render("space") + "  mark for bulk delete",
		s.HelpKey.Render("D") + "      delete marked",
		s.HelpKey.Render("/") + "      search titles",
		s.HelpKey.Render("s") + "      cycle sort",
		s.HelpKey.Render("p") + "      pin",
		s.HelpKey.Render("*") + "      favorite",
		s.HelpKey.Render("a") + "      archive",
		s.HelpKey.Render("L") + "      lock / unlock",
		s.HelpKey.Render("c") + "      color",
		s.HelpKey.Render("t") + "      theme",
		s.HelpKey.Render("m") + "      light / dark",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *NoteListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "Delete Note?"
	detail := v.target.Title
	if v.mode == listConfirmDeleteMarked {
		title = "Delete Marked Notes?"
		detail = fmt.Sprintf("%d notes", len(v.app.MarkedIDs()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func sortLabel(s notes.Sort) string {
	if s == "" {
		return string(notes.ModifiedDesc)
	}
	return string(s)
}

// cycle returns the element after cur, wrapping around
func cycle[T comparable](all []T, cur T) T {
	i := slices.Index(all, cur)
	return all[(i+1)%len(all)]
}

package views

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kim-mac/aiopad/internal/ai"
	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/export"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
	"github.com/kim-mac/aiopad/internal/ocr"
	"github.com/kim-mac/aiopad/internal/todo"
	"github.com/kim-mac/aiopad/internal/ui/keys"
	"github.com/kim-mac/aiopad/internal/ui/markdown"
	"github.com/kim-mac/aiopad/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Assistant transforms note text
type Assistant interface {
	Transform(ctx context.Context, kind ai.Kind, text string) (ai.Result, error)
}

// Services are the outside collaborators the editor calls
type Services struct {
	AI        Assistant
	OCR       ocr.Recognizer
	ExportDir string
}

// FocusArea represents which part of the editor has focus
type FocusArea int

const (
	FocusContent FocusArea = iota
	FocusTitle
	FocusTasks
)

type editorMode int

const (
	editNormal editorMode = iota
	editTaskText
	editDueDate
	editTabName
	editTaskSearch
	editOCRPath
	editAIMenu
	editExportMenu
	editBusy
)

// BackToNotes signals to go back to the note list
type BackToNotes struct{}

type aiDoneMsg struct {
	noteID string
	kind   ai.Kind
	res    ai.Result
	err    error
}

type ocrDoneMsg struct {
	noteID string
	text   string
	err    error
}

// EditorView edits one note: title, then content or tasks
type EditorView struct {
	app    *app.App
	svc    Services
	noteID string
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus      FocusArea
	mode       editorMode
	title      textinput.Model
	content    textarea.Model
	input      textinput.Model
	editTaskID string // empty while adding
	preview    bool
	cursor     int
	scrollY    int
	menuCursor int
	cancel     context.CancelFunc
	status     string
	statusErr  bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewEditorView opens the note with the given id
func NewEditorView(a *app.App, svc Services, id string) *EditorView {
	s := styles.NewStyles()

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Start typing..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetWidth(60)
	content.SetHeight(12)

	input := textinput.New()
	input.CharLimit = 500

	v := &EditorView{
		app:     a,
		svc:     svc,
		noteID:  id,
		styles:  s,
		keys:    keys.DefaultKeyMap(),
		title:   title,
		content: content,
		input:   input,
	}
	if n, ok := a.Note(id); ok {
		v.title.SetValue(n.Title)
		v.content.SetValue(n.Content)
		if n.Type == models.NoteTypeTodo {
			v.focus = FocusTasks
		}
	}
	v.updateFocus()
	return v
}

// NoteID is the id of the note being edited
func (v *EditorView) NoteID() string {
	return v.noteID
}

// Restyle picks up the current theme
func (v *EditorView) Restyle() {
	v.styles = styles.NewStyles()
}

// Init initializes the view
func (v *EditorView) Init() tea.Cmd {
	if v.focus == FocusTasks {
		return nil
	}
	return textarea.Blink
}

func (v *EditorView) note() (models.Note, bool) {
	return v.app.Note(v.noteID)
}

func (v *EditorView) isTodo() bool {
	n, ok := v.note()
	return ok && n.Type == models.NoteTypeTodo
}

func (v *EditorView) dispatch(cmd app.Command) app.Result {
	res := v.app.Dispatch(cmd)
	if res.Message != "" {
		v.setStatus(res.Message, true)
	}
	return res
}

func (v *EditorView) setStatus(msg string, isErr bool) {
	v.status = msg
	v.statusErr = isErr
}

// Save writes the title and content fields back to the note when they changed
func (v *EditorView) Save() {
	n, ok := v.note()
	if !ok {
		return
	}
	var cmd app.EditNote
	cmd.ID = v.noteID
	if t := v.title.Value(); t != n.Title {
		cmd.Title = &t
	}
	if c := v.content.Value(); n.Type != models.NoteTypeTodo && c != n.Content {
		cmd.Content = &c
	}
	if cmd.Title != nil || cmd.Content != nil {
		v.dispatch(cmd)
	}
}

// Close saves and cancels any call still in flight
func (v *EditorView) Close() {
	v.Save()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// reload copies the stored content into the textarea
func (v *EditorView) reload() {
	if n, ok := v.note(); ok {
		v.content.SetValue(n.Content)
	}
}

// Update handles messages
func (v *EditorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.content.SetWidth(max(contentWidth-6, 20))
		v.content.SetHeight(max(v.height-12, 3))
		v.title.Width = max(contentWidth-24, 10)
		return v, nil

	case aiDoneMsg:
		return v, v.finishAI(msg)

	case ocrDoneMsg:
		return v, v.finishOCR(msg)

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch v.mode {
		case editBusy:
			if key.Matches(msg, v.keys.Back) && v.cancel != nil {
				v.cancel()
			}
			return v, nil
		case editAIMenu, editExportMenu:
			return v.updateMenu(msg)
		case editTaskText, editDueDate, editTabName, editTaskSearch, editOCRPath:
			return v.updatePrompt(msg)
		}
		return v.updateNormal(msg)
	}

	return v, v.forward(msg)
}

// forward passes non-key messages such as cursor blinks to the focused field
func (v *EditorView) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case v.mode != editNormal:
		v.input, cmd = v.input.Update(msg)
	case v.focus == FocusTitle:
		v.title, cmd = v.title.Update(msg)
	case v.focus == FocusContent:
		v.content, cmd = v.content.Update(msg)
	}
	return cmd
}

func (v *EditorView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status = ""

	switch {
	case key.Matches(msg, v.keys.Back):
		v.Close()
		return v, func() tea.Msg { return BackToNotes{} }
	case key.Matches(msg, v.keys.Save):
		v.Save()
		v.setStatus("Saved", false)
		return v, nil
	case key.Matches(msg, v.keys.Tab), msg.String() == "shift+tab":
		v.Save()
		v.cycleFocus()
		return v, nil
	case key.Matches(msg, v.keys.Export):
		v.Save()
		v.mode = editExportMenu
		v.menuCursor = 0
		return v, nil
	case key.Matches(msg, v.keys.Preview) && !v.isTodo():
		v.Save()
		v.preview = !v.preview
		return v, nil
	case key.Matches(msg, v.keys.AI) && !v.isTodo():
		if v.svc.AI == nil {
			v.setStatus("Assistant unavailable", true)
			return v, nil
		}
		v.Save()
		v.mode = editAIMenu
		v.menuCursor = 0
		return v, nil
	case key.Matches(msg, v.keys.OCR):
		n, _ := v.note()
		if n.Type != models.NoteTypeHandwriting {
			return v, nil
		}
		if v.svc.OCR == nil {
			v.setStatus("Handwriting recognition unavailable", true)
			return v, nil
		}
		v.Save()
		return v, v.startPrompt(editOCRPath, "Path to an image or stroke .json", "")
	}

	switch v.focus {
	case FocusTasks:
		return v.updateTasks(msg)
	case FocusTitle:
		if key.Matches(msg, v.keys.Enter) {
			v.Save()
			v.cycleFocus()
			return v, nil
		}
		var cmd tea.Cmd
		v.title, cmd = v.title.Update(msg)
		return v, cmd
	default:
		if v.preview {
			return v, nil
		}
		var cmd tea.Cmd
		v.content, cmd = v.content.Update(msg)
		return v, cmd
	}
}

func (v *EditorView) cycleFocus() {
	if v.focus == FocusTitle {
		if v.isTodo() {
			v.focus = FocusTasks
		} else {
			v.focus = FocusContent
		}
	} else {
		v.focus = FocusTitle
	}
	v.updateFocus()
}

func (v *EditorView) updateFocus() {
	v.title.Blur()
	v.content.Blur()
	switch v.focus {
	case FocusTitle:
		v.title.Focus()
	case FocusContent:
		v.content.Focus()
	}
}

func (v *EditorView) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := v.app.Tasks()
	var task models.Task
	hasTask := v.cursor < len(tasks)
	if hasTask {
		task = tasks[v.cursor]
	}
	opts := v.app.State().TaskView
	// follow keeps the cursor on the task after an edit reorders the list
	follow := false

	switch {
	case key.Matches(msg, v.keys.Quit):
		v.Close()
		return v, tea.Quit
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.New):
		v.editTaskID = ""
		return v, v.startPrompt(editTaskText, "New task", "")
	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if hasTask {
			v.editTaskID = task.ID
			return v, v.startPrompt(editTaskText, "Task", task.Text)
		}
	case key.Matches(msg, v.keys.Toggle):
		if hasTask {
			v.dispatch(app.ToggleTask{ID: task.ID})
			follow = true
		}
	case key.Matches(msg, v.keys.Delete):
		if hasTask {
			v.dispatch(app.DeleteTask{ID: task.ID})
		}
	case key.Matches(msg, v.keys.Priority):
		if hasTask {
			v.dispatch(app.SetTaskPriority{ID: task.ID, Priority: cycle(priorities, task.Priority)})
			follow = true
		}
	case key.Matches(msg, v.keys.TaskType):
		if hasTask {
			v.dispatch(app.SetTaskType{ID: task.ID, Type: cycle([]models.TaskType{models.TaskTypeOneTime, models.TaskTypeDaily}, task.TaskType)})
			follow = true
		}
	case key.Matches(msg, v.keys.DueDate):
		if hasTask {
			v.editTaskID = task.ID
			current := ""
			if task.DueDate != nil {
				current = task.DueDate.Format(todo.DateLayout)
			}
			return v, v.startPrompt(editDueDate, "YYYY-MM-DD, empty clears", current)
		}
	case key.Matches(msg, v.keys.ResetDaily):
		v.dispatch(app.ForceResetDaily{})
		v.setStatus("Daily tasks reset", false)
	case key.Matches(msg, v.keys.Filter):
		opts.FilterCompleted = cycle([]todo.CompletedFilter{todo.ShowAll, todo.ShowPending, todo.ShowCompleted}, opts.FilterCompleted)
		v.setTaskView(opts)
	case key.Matches(msg, v.keys.FilterPrio):
		opts.FilterPriority = cycle([]todo.PriorityFilter{todo.AnyPriority, "high", "medium", "low", todo.NoPriority}, opts.FilterPriority)
		v.setTaskView(opts)
	case key.Matches(msg, v.keys.FilterType):
		opts.FilterType = cycle([]todo.TypeFilter{todo.AnyType, "daily", "one-time"}, opts.FilterType)
		v.setTaskView(opts)
	case key.Matches(msg, v.keys.Sort):
		opts.SortBy = cycle([]todo.SortBy{todo.SortPriority, todo.SortDueDate, todo.SortCreationDate, todo.SortName}, opts.SortBy)
		v.setTaskView(opts)
	case key.Matches(msg, v.keys.Order):
		opts.SortOrder = cycle([]todo.SortOrder{todo.Desc, todo.Asc}, opts.SortOrder)
		v.setTaskView(opts)
	case key.Matches(msg, v.keys.Search):
		return v, v.startPrompt(editTaskSearch, "Search tasks...", opts.SearchQuery)
	case key.Matches(msg, v.keys.NextTab), key.Matches(msg, v.keys.PrevTab):
		if tabs, ok := v.tabs(); ok && len(tabs.Tabs) > 1 {
			step := 1
			if key.Matches(msg, v.keys.PrevTab) {
				step = len(tabs.Tabs) - 1
			}
			next := tabs.Tabs[(tabs.ActiveIndex()+step)%len(tabs.Tabs)]
			v.dispatch(app.SelectTab{ID: next.ID})
			v.cursor = 0
		}
	case key.Matches(msg, v.keys.NewTab):
		v.dispatch(app.NewTab{})
		v.cursor = 0
	case key.Matches(msg, v.keys.RenameTab):
		if tabs, ok := v.tabs(); ok {
			return v, v.startPrompt(editTabName, "Tab name", tabs.Tabs[tabs.ActiveIndex()].Name)
		}
	case key.Matches(msg, v.keys.DeleteTab):
		if tabs, ok := v.tabs(); ok {
			v.dispatch(app.DeleteTab{ID: tabs.Tabs[tabs.ActiveIndex()].ID})
			v.cursor = 0
		}
	}

	if follow {
		if i := v.taskIndex(task.ID); i >= 0 {
			v.cursor = i
			v.ensureVisible()
		}
	}
	if n := len(v.app.Tasks()); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	return v, nil
}

var priorities = []models.Priority{models.PriorityNone, models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

func (v *EditorView) setTaskView(opts todo.ViewOptions) {
	v.dispatch(app.SetTaskView{Options: opts})
	v.cursor = 0
	v.scrollY = 0
}

// tabs returns the tabbed source of the note, if it has one
func (v *EditorView) tabs() (models.TabbedTasks, bool) {
	n, ok := v.note()
	if !ok {
		return models.TabbedTasks{}, false
	}
	tabs, ok := n.Tasks.(models.TabbedTasks)
	return tabs, ok && len(tabs.Tabs) > 0
}

func (v *EditorView) ensureVisible() {
	visible := v.taskRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *EditorView) taskRows() int {
	return max(v.height-14, 3)
}

func (v *EditorView) startPrompt(mode editorMode, placeholder, value string) tea.Cmd {
	v.mode = mode
	v.input.Placeholder = placeholder
	v.input.SetValue(value)
	v.input.CursorEnd()
	return v.input.Focus()
}

func (v *EditorView) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		if v.mode == editTaskSearch {
			opts := v.app.State().TaskView
			opts.SearchQuery = ""
			v.setTaskView(opts)
		}
		v.endPrompt()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		mode, value := v.mode, v.input.Value()
		v.endPrompt()
		return v, v.submitPrompt(mode, value)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.mode == editTaskSearch {
		opts := v.app.State().TaskView
		opts.SearchQuery = v.input.Value()
		v.setTaskView(opts)
	}
	return v, cmd
}

func (v *EditorView) endPrompt() {
	v.mode = editNormal
	v.input.Blur()
	v.input.Reset()
}

func (v *EditorView) submitPrompt(mode editorMode, value string) tea.Cmd {
	switch mode {
	case editTaskText:
		if v.editTaskID == "" {
			v.dispatch(app.AddTask{Text: strings.TrimSpace(value)})
		} else {
			v.dispatch(app.SetTaskText{ID: v.editTaskID, Text: value})
		}
	case editDueDate:
		due, err := todo.ParseDueDate(value, v.app.Now().Location())
		if err != nil {
			v.setStatus(err.Error(), true)
			return nil
		}
		v.dispatch(app.SetTaskDueDate{ID: v.editTaskID, Due: due})
	case editTabName:
		if tabs, ok := v.tabs(); ok && strings.TrimSpace(value) != "" {
			v.dispatch(app.RenameTab{ID: tabs.Tabs[tabs.ActiveIndex()].ID, Name: strings.TrimSpace(value)})
		}
	case editOCRPath:
		return v.startOCR(strings.TrimSpace(value))
	}
	return nil
}

func (v *EditorView) menuItems() []string {
	if v.mode == editAIMenu {
		var items []string
		for _, k := range ai.Kinds() {
			items = append(items, string(k))
		}
		return items
	}
	var items []string
	for _, f := range export.Formats() {
		items = append(items, string(f))
	}
	return items
}

func (v *EditorView) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := v.menuItems()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = editNormal
	case key.Matches(msg, v.keys.Up):
		v.menuCursor = (v.menuCursor + len(items) - 1) % len(items)
	case key.Matches(msg, v.keys.Down):
		v.menuCursor = (v.menuCursor + 1) % len(items)
	case key.Matches(msg, v.keys.Enter):
		choice := items[v.menuCursor]
		if v.mode == editAIMenu {
			return v, v.startAI(ai.Kind(choice))
		}
		v.mode = editNormal
		v.exportTo(export.Format(choice))
	}
	return v, nil
}

func (v *EditorView) startAI(kind ai.Kind) tea.Cmd {
	n, ok := v.note()
	if !ok {
		v.mode = editNormal
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.mode = editBusy
	v.setStatus("Asking the assistant to "+string(kind)+"…", false)

	assistant, id, text := v.svc.AI, n.ID, n.Content
	return func() tea.Msg {
		res, err := assistant.Transform(ctx, kind, text)
		return aiDoneMsg{noteID: id, kind: kind, res: res, err: err}
	}
}

func (v *EditorView) finishAI(msg aiDoneMsg) tea.Cmd {
	v.endCall()
	if msg.err != nil {
		v.setStatus(callError("Assistant", msg.err), true)
		return nil
	}
	cmd, status := app.MergeAI(msg.noteID, msg.kind, msg.res)
	if cmd != nil {
		v.dispatch(cmd)
		v.reload()
	}
	v.setStatus(status, false)
	return nil
}

func (v *EditorView) startOCR(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	img, err := ocr.LoadImage(path)
	if err != nil {
		v.setStatus(err.Error(), true)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.mode = editBusy
	v.setStatus("Recognizing handwriting…", false)

	recognizer, id := v.svc.OCR, v.noteID
	return func() tea.Msg {
		text, err := recognizer.Recognize(ctx, img)
		return ocrDoneMsg{noteID: id, text: text, err: err}
	}
}

func (v *EditorView) finishOCR(msg ocrDoneMsg) tea.Cmd {
	v.endCall()
	if msg.err != nil {
		v.setStatus(callError("Recognition", msg.err), true)
		return nil
	}
	v.dispatch(app.MergeOCR(msg.noteID, msg.text))
	v.reload()
	v.setStatus("Handwriting added", false)
	return nil
}

func (v *EditorView) endCall() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mode = editNormal
}

func callError(what string, err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return what + " cancelled"
	case errors.Is(err, ai.ErrNoAPIKey):
		return "Set OPENAI_API_KEY to use the assistant"
	case errors.Is(err, ocr.ErrNoText):
		return "No text recognized"
	}
	return what + " failed: " + err.Error()
}

func (v *EditorView) exportTo(format export.Format) {
	n, ok := v.note()
	if !ok {
		return
	}
	path := filepath.Join(v.svc.ExportDir, export.Filename(n.Title, format))
	if err := export.WriteFile(path, format, n); err != nil {
		v.setStatus("Export failed: "+err.Error(), true)
		return
	}
	v.setStatus("Exported to "+path, false)
}

// View renders the view
func (v *EditorView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.mode == editAIMenu || v.mode == editExportMenu {
		return v.renderMenu()
	}

	n, ok := v.note()
	if !ok {
		return v.styles.TitleMuted.Render("Note not found. Press esc.")
	}

	parts := []string{v.renderHeader(n), ""}
	if n.Type == models.NoteTypeTodo {
		parts = append(parts, v.renderTabs(n), v.renderTaskSummary(n), "", v.renderTaskList())
	} else {
		parts = append(parts, v.renderContent())
	}
	if v.mode != editNormal && v.mode != editBusy {
		parts = append(parts, "", v.styles.InputFocused.Width(clamp(styles.ContentWidth(v.width)-6, 20, 70)).Render(v.input.View()))
	}
	parts = append(parts, v.renderStatus(n), v.renderHelp(n))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *EditorView) renderHeader(n models.Note) string {
	s := v.styles
	titleStyle := s.Input
	if v.focus == FocusTitle {
		titleStyle = s.InputFocused
	}
	label := s.TitleMuted.Render(string(n.Type))
	if hex := n.Color.Hex(); hex != "" {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●") + " " + label
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.Button.Render("← Notes"),
		" ",
		titleStyle.Render(v.title.View()),
		" ",
		label,
	)
}

func (v *EditorView) renderContent() string {
	width := max(styles.ContentWidth(v.width)-6, 20)
	if v.preview {
		style := markdown.Dark
		if v.app.State().Theme.Mode == "light" {
			style = markdown.Light
		}
		out := markdown.Render(v.content.Value(), width, style)
		if out == "" {
			out = v.styles.TitleMuted.Render("Nothing to preview")
		}
		return v.styles.FilterBar.Width(width + 2).Render(out)
	}
	style := v.styles.Input
	if v.focus == FocusContent {
		style = v.styles.InputFocused
	}
	return style.Render(v.content.View())
}

func (v *EditorView) renderTabs(n models.Note) string {
	tabs, ok := n.Tasks.(models.TabbedTasks)
	if !ok || len(tabs.Tabs) == 0 {
		return v.styles.TitleMuted.Render("T: new tab")
	}
	active := tabs.ActiveIndex()
	var rendered []string
	for i, t := range tabs.Tabs {
		if i == active {
			rendered = append(rendered, v.styles.ButtonPrimary.Render(t.Name))
		} else {
			rendered = append(rendered, v.styles.FilterButton.Render(t.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

func (v *EditorView) renderTaskSummary(n models.Note) string {
	list := models.CurrentTasks(n.Tasks)
	opts := v.app.State().TaskView
	summary := fmt.Sprintf("%d/%d done · %d shown · sort %s %s · show %s · priority %s · type %s",
		todo.Completed(list), todo.Total(list), todo.Count(list, opts),
		opts.SortBy, opts.SortOrder, opts.FilterCompleted, opts.FilterPriority, opts.FilterType)
	if opts.SearchQuery != "" {
		summary += fmt.Sprintf(" · %q", opts.SearchQuery)
	}
	return v.styles.StatusBar.Render(wordwrap.String(summary, max(styles.ContentWidth(v.width)-4, 20)))
}

func (v *EditorView) renderTaskList() string {
	s := v.styles
	tasks := v.app.Tasks()
	if len(tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to add one.")
	}

	var lines []string
	end := min(len(tasks), v.scrollY+v.taskRows())
	for i := v.scrollY; i < end; i++ {
		lines = append(lines, v.renderTaskItem(tasks[i], v.focus == FocusTasks && i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *EditorView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}

	var badges []string
	switch task.Priority {
	case models.PriorityHigh:
		badges = append(badges, lipgloss.NewStyle().Foreground(styles.Current.Error).Render("!high"))
	case models.PriorityMedium:
		badges = append(badges, lipgloss.NewStyle().Foreground(styles.Current.Warning).Render("!medium"))
	case models.PriorityLow:
		badges = append(badges, lipgloss.NewStyle().Foreground(styles.Current.Info).Render("!low"))
	}
	if task.TaskType == models.TaskTypeDaily {
		badges = append(badges, s.Pinned.Render("↻ daily"))
	}
	if task.DueDate != nil {
		due := "due " + task.DueDate.Format(todo.DateLayout)
		if todo.Overdue(task, v.app.Now()) {
			due = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(due + " overdue")
		} else {
			due = s.TitleMuted.Render(due)
		}
		badges = append(badges, due)
	}

	text := task.Text
	if task.Completed {
		text = lipgloss.NewStyle().Strikethrough(true).Render(text)
	}
	line := check + " " + wordwrap.String(text, max(width-24, 10))
	if len(badges) > 0 {
		line += "  " + strings.Join(badges, " ")
	}

	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func (v *EditorView) renderStatus(n models.Note) string {
	if v.status != "" {
		style := v.styles.StatusBar
		if v.statusErr {
			style = v.styles.StatusError
		}
		return style.Render(truncate.StringWithTail(v.status, uint(max(styles.ContentWidth(v.width)-4, 20)), "…"))
	}
	text := v.content.Value()
	if n.Type == models.NoteTypeTodo {
		text = export.Text(n)
	}
	return v.styles.StatusBar.Render(fmt.Sprintf("%d words · %d characters · edited %s",
		notes.WordCount(text), notes.CharCount(text), n.LastModified.Format("Jan 2 15:04")))
}

func (v *EditorView) renderMenu() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "Export as"
	if v.mode == editAIMenu {
		title = "Assistant"
	}
	items := []string{s.Title.Render(title), ""}
	for i, item := range v.menuItems() {
		if i == v.menuCursor {
			items = append(items, s.ListSelected.Render(item))
		} else {
			items = append(items, s.ListItem.Render(item))
		}
	}
	items = append(items, "", s.TitleMuted.Render("↑↓: choose • ↵: run • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *EditorView) renderHelp(n models.Note) string {
	contentWidth := styles.ContentWidth(v.width)
	if v.mode == editBusy {
		return v.styles.Help.Render(v.styles.HelpKey.Render("esc") + " cancel")
	}
	if n.Type == models.NoteTypeTodo && v.focus == FocusTasks {
		// At narrow widths, show hint to press ? for help
		if contentWidth > 0 && contentWidth < 70 {
			return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
		}
		return v.styles.Help.Render(
			fmt.Sprintf("%s add • %s toggle • %s edit • %s del • %s priority • %s daily • %s due • %s filter • %s sort • %s tabs • %s back",
				v.styles.HelpKey.Render("n"),
				v.styles.HelpKey.Render("space"),
				v.styles.HelpKey.Render("e"),
				v.styles.HelpKey.Render("d"),
				v.styles.HelpKey.Render("p"),
				v.styles.HelpKey.Render("y"),
				v.styles.HelpKey.Render("u"),
				v.styles.HelpKey.Render("f"),
				v.styles.HelpKey.Render("s"),
				v.styles.HelpKey.Render("[ ]"),
				v.styles.HelpKey.Render("esc"),
			),
		)
	}

	items := []string{
		v.styles.HelpKey.Render("tab") + " field",
		v.styles.HelpKey.Render("ctrl+s") + " save",
		v.styles.HelpKey.Render("ctrl+x") + " export",
	}
	if n.Type != models.NoteTypeTodo {
		items = append(items,
			v.styles.HelpKey.Render("ctrl+p")+" preview",
			v.styles.HelpKey.Render("ctrl+g")+" assistant",
		)
	}
	if n.Type == models.NoteTypeHandwriting {
		items = append(items, v.styles.HelpKey.Render("ctrl+o")+" recognize")
	}
	items = append(items, v.styles.HelpKey.Render("esc")+" back")
	return v.styles.Help.Render(strings.Join(items, " • "))
}

func (v *EditorView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("n") + "      add task",
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("e") + "      edit text",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("p") + "      cycle priority",
		s.HelpKey.Render("y") + "      daily / one-time",
		s.HelpKey.Render("u") + "      due date",
		s.HelpKey.Render("r") + "      reset daily tasks",
		s.HelpKey.Render("f F Y") + "  filter done / priority / type",
		s.HelpKey.Render("s o") + "    sort key / order",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("[ ]") + "    switch tab",
		s.HelpKey.Render("T R X") + "  new / rename / delete tab",
		s.HelpKey.Render("esc") + "    back",
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

// taskIndex reports where id sits in the derived task list, or -1
func (v *EditorView) taskIndex(id string) int {
	return slices.IndexFunc(v.app.Tasks(), func(t models.Task) bool { return t.ID == id })
}

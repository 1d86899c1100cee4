package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/todo"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the tasks of a to-do note's current tab",
}

var taskListCmd = &cobra.Command{
	Use:   "list <note>",
	Short: "List tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runTaskList),
}

var taskAddCmd = &cobra.Command{
	Use:   "add <note> [text...]",
	Short: "Add a task and print its id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withSession(runTaskAdd),
}

var taskToggleCmd = &cobra.Command{
	Use:     "toggle <note> <task>",
	Aliases: []string{"done"},
	Short:   "Mark a task done or not done",
	Args:    cobra.ExactArgs(2),
	RunE:    withSession(runTaskToggle),
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <note> <task>",
	Short: "Change a task's text, priority, due date or type",
	Args:  cobra.ExactArgs(2),
	RunE:  withSession(runTaskEdit),
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <note> <task>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(2),
	RunE:    withSession(runTaskDelete),
}

var taskResetCmd = &cobra.Command{
	Use:   "reset <note>",
	Short: "Uncheck every daily task now",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runTaskReset),
}

var (
	taskListJSON     bool
	taskListSort     string
	taskListOrder    string
	taskListShow     string
	taskListPriority string
	taskListType     string
	taskListSearch   string

	taskAddJSON bool

	taskEditText     string
	taskEditPriority string
	taskEditDue      string
	taskEditType     string
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskToggleCmd, taskEditCmd, taskDeleteCmd, taskResetCmd)

	defaults := todo.DefaultViewOptions()
	f := taskListCmd.Flags()
	f.BoolVar(&taskListJSON, "json", false, "output as JSON")
	f.StringVar(&taskListSort, "sort", string(defaults.SortBy), "sort key: priority, dueDate, creationDate or name")
	f.StringVar(&taskListOrder, "order", string(defaults.SortOrder), "asc or desc")
	f.StringVar(&taskListShow, "show", string(defaults.FilterCompleted), "all, completed or pending")
	f.StringVar(&taskListPriority, "priority", string(defaults.FilterPriority), "all, none, low, medium or high")
	f.StringVar(&taskListType, "type", string(defaults.FilterType), "all, one-time or daily")
	f.StringVar(&taskListSearch, "search", "", "only tasks containing this text")

	taskAddCmd.Flags().BoolVar(&taskAddJSON, "json", false, "output as JSON")

	taskEditCmd.Flags().StringVar(&taskEditText, "text", "", "new text")
	taskEditCmd.Flags().StringVar(&taskEditPriority, "priority", "", "none, low, medium or high")
	taskEditCmd.Flags().StringVar(&taskEditDue, "due", "", "due date as YYYY-MM-DD, empty clears it")
	taskEditCmd.Flags().StringVar(&taskEditType, "type", "", "one-time or daily")
}

func taskViewFromFlags() (todo.ViewOptions, error) {
	var opts todo.ViewOptions
	var err error
	if opts.SortBy, err = todo.ParseSortBy(taskListSort); err != nil {
		return opts, err
	}
	if opts.SortOrder, err = todo.ParseSortOrder(taskListOrder); err != nil {
		return opts, err
	}
	if opts.FilterCompleted, err = todo.ParseCompletedFilter(taskListShow); err != nil {
		return opts, err
	}
	if opts.FilterPriority, err = todo.ParsePriorityFilter(taskListPriority); err != nil {
		return opts, err
	}
	if opts.FilterType, err = todo.ParseTypeFilter(taskListType); err != nil {
		return opts, err
	}
	opts.SearchQuery = taskListSearch
	return opts, nil
}

func runTaskList(cmd *cobra.Command, s *session, args []string) error {
	opts, err := taskViewFromFlags()
	if err != nil {
		return err
	}
	n, err := s.openTodo(args[0])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.SetTaskView{Options: opts})
	tasks := s.app.Tasks()

	out := cmd.OutOrStdout()
	if taskListJSON {
		if tasks == nil {
			tasks = []models.Task{}
		}
		return encodeJSON(out, tasks)
	}

	all := models.CurrentTasks(n.Tasks)
	fmt.Fprintf(out, "%d/%d done\n", todo.Completed(all), todo.Total(all))
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks")
		return nil
	}

	now := s.app.Now()
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := formatDue(t.DueDate)
		if todo.Overdue(t, now) {
			due += " (overdue)"
		}
		rows = append(rows, []string{shortID(t.ID), check(t.Completed), t.Text, orDash(string(t.Priority)), due, string(t.TaskType)})
	}
	fmt.Fprint(out, formatTable([]string{"ID", "DONE", "TASK", "PRIORITY", "DUE", "TYPE"}, rows))
	return nil
}

func runTaskAdd(cmd *cobra.Command, s *session, args []string) error {
	if _, err := s.openTodo(args[0]); err != nil {
		return err
	}
	before := models.CurrentTasks(mustSelected(s).Tasks)
	if _, err := s.dispatch(app.AddTask{Text: strings.Join(args[1:], " ")}); err != nil {
		return err
	}
	after := models.CurrentTasks(mustSelected(s).Tasks)
	if len(after) <= len(before) {
		return errors.New("task was not added")
	}
	added := after[len(after)-1]

	if taskAddJSON {
		return encodeJSON(cmd.OutOrStdout(), added)
	}
	fmt.Fprintln(cmd.OutOrStdout(), added.ID)
	return nil
}

func runTaskToggle(cmd *cobra.Command, s *session, args []string) error {
	t, err := s.findTask(args[0], args[1])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.ToggleTask{ID: t.ID})
	t, _ = todo.Find(models.CurrentTasks(mustSelected(s).Tasks), t.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", check(t.Completed), t.Text)
	return nil
}

func runTaskEdit(cmd *cobra.Command, s *session, args []string) error {
	t, err := s.findTask(args[0], args[1])
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	var cmds []app.Command
	if flags.Changed("text") {
		if strings.TrimSpace(taskEditText) == "" {
			return errors.New("task text cannot be empty")
		}
		cmds = append(cmds, app.SetTaskText{ID: t.ID, Text: taskEditText})
	}
	if flags.Changed("priority") {
		p, err := todo.ParsePriority(taskEditPriority)
		if err != nil {
			return err
		}
		cmds = append(cmds, app.SetTaskPriority{ID: t.ID, Priority: p})
	}
	if flags.Changed("due") {
		due, err := todo.ParseDueDate(taskEditDue, s.app.Now().Location())
		if err != nil {
			return err
		}
		cmds = append(cmds, app.SetTaskDueDate{ID: t.ID, Due: due})
	}
	if flags.Changed("type") {
		tt := models.TaskType(taskEditType)
		if !tt.Valid() {
			return fmt.Errorf("unknown task type %q", taskEditType)
		}
		cmds = append(cmds, app.SetTaskType{ID: t.ID, Type: tt})
	}
	if len(cmds) == 0 {
		return errors.New("nothing to change: use --text, --priority, --due or --type")
	}
	for _, c := range cmds {
		if _, err := s.dispatch(c); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(t.ID))
	return nil
}

func runTaskDelete(cmd *cobra.Command, s *session, args []string) error {
	t, err := s.findTask(args[0], args[1])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.DeleteTask{ID: t.ID})
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.Text)
	return nil
}

func runTaskReset(cmd *cobra.Command, s *session, args []string) error {
	if _, err := s.openTodo(args[0]); err != nil {
		return err
	}
	s.app.Dispatch(app.ForceResetDaily{})
	fmt.Fprintln(cmd.OutOrStdout(), "Daily tasks reset")
	return nil
}

// findTask opens the note and resolves a task of its current list by id
// or unique id prefix
func (s *session) findTask(noteRef, taskRef string) (models.Task, error) {
	n, err := s.openTodo(noteRef)
	if err != nil {
		return models.Task{}, err
	}
	taskRef = strings.ToLower(strings.TrimSpace(taskRef))
	var matches []models.Task
	for _, t := range models.CurrentTasks(n.Tasks) {
		id := strings.ToLower(t.ID)
		if id == taskRef {
			return t, nil
		}
		if taskRef != "" && strings.HasPrefix(id, taskRef) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("task not found: %s", taskRef)
	case 1:
		return matches[0], nil
	}
	return models.Task{}, fmt.Errorf("task id %q is ambiguous", taskRef)
}

// mustSelected returns the open note; callers have already opened one
func mustSelected(s *session) models.Note {
	n, _ := s.app.Selected()
	return n
}

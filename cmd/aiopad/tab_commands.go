package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/todo"
)

var tabCmd = &cobra.Command{
	Use:     "tab",
	Aliases: []string{"tabs"},
	Short:   "Manage the tabs of a to-do note",
}

var tabListCmd = &cobra.Command{
	Use:   "list <note>",
	Short: "List tabs",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runTabList),
}

var tabNewCmd = &cobra.Command{
	Use:   "new <note> [name]",
	Short: "Add a tab and switch to it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  withSession(runTabNew),
}

var tabRenameCmd = &cobra.Command{
	Use:   "rename <note> <tab> <name>",
	Short: "Rename a tab",
	Args:  cobra.ExactArgs(3),
	RunE:  withSession(runTabRename),
}

var tabDeleteCmd = &cobra.Command{
	Use:     "delete <note> <tab>",
	Aliases: []string{"rm"},
	Short:   "Delete a tab and its tasks",
	Args:    cobra.ExactArgs(2),
	RunE:    withSession(runTabDelete),
}

var tabSelectCmd = &cobra.Command{
	Use:   "select <note> <tab>",
	Short: "Switch the current tab",
	Args:  cobra.ExactArgs(2),
	RunE:  withSession(runTabSelect),
}

var tabListJSON bool

func init() {
	rootCmd.AddCommand(tabCmd)
	tabCmd.AddCommand(tabListCmd, tabNewCmd, tabRenameCmd, tabDeleteCmd, tabSelectCmd)
	tabListCmd.Flags().BoolVar(&tabListJSON, "json", false, "output as JSON")
}

func runTabList(cmd *cobra.Command, s *session, args []string) error {
	n, err := s.openTodo(args[0])
	if err != nil {
		return err
	}
	tabs := tabsJSON(n.Tasks)

	out := cmd.OutOrStdout()
	if tabListJSON {
		if tabs == nil {
			tabs = []tabJSON{}
		}
		return encodeJSON(out, tabs)
	}
	if len(tabs) == 0 {
		fmt.Fprintln(out, "No tabs")
		return nil
	}
	rows := make([][]string, 0, len(tabs))
	for i, t := range tabs {
		current := ""
		if t.Active {
			current = "*"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), current, t.Name, fmt.Sprintf("%d/%d", t.Done, t.Tasks)})
	}
	fmt.Fprint(out, formatTable([]string{"#", "", "NAME", "DONE"}, rows))
	return nil
}

func runTabNew(cmd *cobra.Command, s *session, args []string) error {
	if _, err := s.openTodo(args[0]); err != nil {
		return err
	}
	if _, err := s.dispatch(app.NewTab{}); err != nil {
		return err
	}
	tabs, _ := mustSelected(s).Tasks.(models.TabbedTasks)
	tab := tabs.Tabs[tabs.ActiveIndex()]
	if len(args) == 2 {
		if _, err := s.dispatch(app.RenameTab{ID: tab.ID, Name: args[1]}); err != nil {
			return err
		}
		tab.Name = args[1]
	}
	fmt.Fprintln(cmd.OutOrStdout(), tab.Name)
	return nil
}

func runTabRename(cmd *cobra.Command, s *session, args []string) error {
	tab, err := s.findTab(args[0], args[1])
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args[2])
	if name == "" {
		return errors.New("tab name cannot be empty")
	}
	s.app.Dispatch(app.RenameTab{ID: tab.ID, Name: name})
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", tab.Name, name)
	return nil
}

func runTabDelete(cmd *cobra.Command, s *session, args []string) error {
	tab, err := s.findTab(args[0], args[1])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.DeleteTab{ID: tab.ID})
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d tasks)\n", tab.Name, todo.Total(tab.Tasks))
	return nil
}

func runTabSelect(cmd *cobra.Command, s *session, args []string) error {
	tab, err := s.findTab(args[0], args[1])
	if err != nil {
		return err
	}
	s.app.Dispatch(app.SelectTab{ID: tab.ID})
	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", tab.Name)
	return nil
}

// findTab opens the note and resolves a tab by 1-based position, name or id
func (s *session) findTab(noteRef, tabRef string) (models.Tab, error) {
	n, err := s.openTodo(noteRef)
	if err != nil {
		return models.Tab{}, err
	}
	tabs, ok := n.Tasks.(models.TabbedTasks)
	if !ok {
		return models.Tab{}, errors.New("note has no tabs")
	}
	if i, err := strconv.Atoi(tabRef); err == nil {
		if i < 1 || i > len(tabs.Tabs) {
			return models.Tab{}, fmt.Errorf("no tab %d", i)
		}
		return tabs.Tabs[i-1], nil
	}
	for _, t := range tabs.Tabs {
		if t.ID == tabRef || strings.EqualFold(t.Name, tabRef) {
			return t, nil
		}
	}
	return models.Tab{}, fmt.Errorf("tab not found: %s", tabRef)
}

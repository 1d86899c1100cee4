package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/db"
	"github.com/kim-mac/aiopad/internal/notes"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the color theme",
	Args:  cobra.NoArgs,
	RunE:  withSession(runThemeGet),
}

var themeSetCmd = &cobra.Command{
	Use:   "set <variant> [mode]",
	Short: "Save the color theme",
	Long: "Save the color theme.\n\n" +
		"Variants: " + strings.Join(notes.ThemeVariants, ", ") + "\n" +
		"Modes: " + strings.Join(notes.ThemeModes, ", "),
	Args: cobra.RangeArgs(1, 2),
	RunE: withSession(runThemeSet),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and storage information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(themeCmd, versionCmd)
	themeCmd.AddCommand(themeSetCmd)
}

func runThemeGet(cmd *cobra.Command, s *session, args []string) error {
	th := s.app.State().Theme
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", th.Variant, th.Mode)
	return nil
}

func runThemeSet(cmd *cobra.Command, s *session, args []string) error {
	th := s.app.State().Theme
	th.Variant = strings.ToLower(args[0])
	if len(args) == 2 {
		th.Mode = strings.ToLower(args[1])
	}
	if _, err := s.dispatch(app.SetTheme{Theme: th}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", th.Variant, th.Mode)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "aiopad %s (commit: %s, built: %s)\n", version, commit, date)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "storage: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend != "sqlite" {
		return nil
	}
	d, err := db.New(cfg.Storage.DatabasePath())
	if err != nil {
		return err
	}
	defer d.Close()
	v, err := d.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "database: %s (schema %d)\n", cfg.Storage.DatabasePath(), v)

	keys, err := d.Keys(cmd.Context())
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		keys = []string{"none"}
	}
	fmt.Fprintf(out, "keys: %s\n", strings.Join(keys, ", "))
	return nil
}

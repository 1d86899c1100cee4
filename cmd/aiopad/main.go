// Command aiopad is a terminal notepad with to-do lists, handwriting
// recognition and a writing assistant. Without a subcommand it opens the
// full screen editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/ai"
	"github.com/kim-mac/aiopad/internal/ocr"
	"github.com/kim-mac/aiopad/internal/ui"
	"github.com/kim-mac/aiopad/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "aiopad",
	Short:        "A notepad for the terminal with to-do lists and writing tools",
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

var (
	rootConfigPath string
	rootDataDir    string
	rootStore      string
	rootLogLevel   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/aiopad/config.toml)")
	flags.StringVar(&rootDataDir, "data-dir", "", "directory holding the database and log")
	flags.StringVar(&rootStore, "store", "", "storage backend: sqlite, redis or memory")
	flags.StringVar(&rootLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.Metrics.Enabled {
		go func() {
			if err := s.metrics.Serve(ctx, s.cfg.Metrics.Addr); err != nil {
				s.log.Errorw("metrics server stopped", "error", err)
			}
		}()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	svc := views.Services{
		AI:        ai.New(s.cfg.AI, s.log, s.metrics),
		OCR:       ocr.New(s.cfg.OCR, s.log, s.metrics),
		ExportDir: cwd,
	}

	model := ui.NewApp(s.app, svc)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	model.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

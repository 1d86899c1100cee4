package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kim-mac/aiopad/internal/app"
	"github.com/kim-mac/aiopad/internal/config"
	"github.com/kim-mac/aiopad/internal/db"
	"github.com/kim-mac/aiopad/internal/kv"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/metrics"
	"github.com/kim-mac/aiopad/internal/models"
	"github.com/kim-mac/aiopad/internal/notes"
)

// session is one run of the program against the configured store
type session struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Metrics
	app        *app.App
	closeStore func() error
}

// loadConfig reads the config and applies the global flags on top of it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if rootDataDir != "" {
		cfg.Storage.DataDir = rootDataDir
	}
	if rootStore != "" {
		cfg.Storage.Backend = rootStore
		cfg.Redis.Enabled = rootStore == "redis"
	}
	if rootLogLevel != "" {
		cfg.Log.Level = rootLogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// stdout belongs to the terminal UI and to command output
	logCfg := cfg.Log
	logCfg.File = cfg.LogPath()
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Errorw("failed to open store", "backend", cfg.Storage.Backend, "error", err)
		log.Close()
		return nil, err
	}

	loc, err := cfg.Clock.Location()
	if err != nil {
		closeStore()
		log.Close()
		return nil, err
	}

	m := metrics.New()
	a := app.New(ctx, app.Options{
		Store:        store,
		Log:          log,
		Metrics:      m,
		Location:     loc,
		BcryptCost:   cfg.Security.BcryptCost,
		DefaultTheme: notes.Theme{Variant: cfg.UI.Theme, Mode: cfg.UI.Mode},
	})
	log.Debugw("session started", "backend", cfg.Storage.Backend, "notes", len(a.Notes()))

	return &session{cfg: cfg, log: log, metrics: m, app: a, closeStore: closeStore}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (kv.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case "redis":
		r, err := kv.NewRedis(ctx, kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case "memory":
		return kv.NewMemory(), func() error { return nil }, nil
	default:
		d, err := db.New(cfg.Storage.DatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return d, d.Close, nil
	}
}

// Close writes pending changes and releases the store
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.app.Close(ctx)
	if err != nil {
		s.log.Errorw("failed to write notes", "error", err)
	}
	err = errors.Join(err, s.closeStore())
	s.log.Close()
	return err
}

// withSession wraps a command body with session setup and teardown
func withSession(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, s.Close())
		}()
		if serr := s.app.StorageErr(); serr != nil {
			return fmt.Errorf("read saved notes: %w", serr)
		}
		return fn(cmd, s, args)
	}
}

// dispatch applies cmd and turns a rejected command into an error
func (s *session) dispatch(cmd app.Command) (app.Result, error) {
	res := s.app.Dispatch(cmd)
	if !res.Changed && res.Message != "" {
		return res, errors.New(res.Message)
	}
	return res, nil
}

// findNote resolves a note by id or by a unique id prefix
func (s *session) findNote(ref string) (models.Note, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return models.Note{}, errors.New("note id is required")
	}
	if n, ok := s.app.Note(ref); ok {
		return n, nil
	}
	var matches []models.Note
	for _, n := range s.app.Notes() {
		if strings.HasPrefix(strings.ToLower(n.ID), ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return models.Note{}, fmt.Errorf("note not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return models.Note{}, fmt.Errorf("note id %q is ambiguous", ref)
}

// openTodo selects a to-do note so task and tab commands apply to it.
// Opening runs the daily reset like the editor does.
func (s *session) openTodo(ref string) (models.Note, error) {
	n, err := s.findNote(ref)
	if err != nil {
		return n, err
	}
	if n.Type != models.NoteTypeTodo {
		return n, errors.New(app.MsgNotTodo)
	}
	if _, err := s.dispatch(app.SelectNote{ID: n.ID}); err != nil {
		return n, err
	}
	n, _ = s.app.Selected()
	return n, nil
}

package notes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kim-mac/aiopad/internal/kv"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/metrics"
	"github.com/kim-mac/aiopad/internal/models"
)

// Byte store keys
const (
	KeyNotes        = "notepad-notes"
	KeyThemeVariant = "notepad-theme-variant"
	KeyColorMode    = "notepad-color-mode"
)

// Theme is the saved appearance preference
type Theme struct {
	Variant string
	Mode    string
}

// ThemeVariants lists the color schemes
var ThemeVariants = []string{"ocean", "forest", "sunset", "lavender", "blackwhite"}

// ThemeModes lists the brightness modes
var ThemeModes = []string{"light", "dark"}

// ValidTheme reports whether t names a known variant and mode
func ValidTheme(t Theme) bool {
	return slices.Contains(ThemeVariants, t.Variant) && slices.Contains(ThemeModes, t.Mode)
}

// Load restores the note collection. A missing or unreadable payload
// yields an empty collection; only a failing store returns an error, and
// even then the empty collection is usable.
//
// Notes locked with a clear-text password are migrated to a bcrypt hash.
// Notes without an id or with a duplicate id get a fresh one.
func Load(ctx context.Context, store kv.Store, log *logger.Logger, bcryptCost int) ([]models.Note, error) {
	data, err := store.Get(ctx, KeyNotes)
	if errors.Is(err, kv.ErrNotFound) {
		return []models.Note{}, nil
	}
	if err != nil {
		log.Errorw("failed to read notes", "error", err)
		return []models.Note{}, fmt.Errorf("load notes: %w", err)
	}

	list, err := models.UnmarshalNotes(data)
	if err != nil {
		log.Errorw("stored notes are corrupt, starting empty", "error", err, "bytes", len(data))
		return []models.Note{}, nil
	}

	seen := make(map[string]bool, len(list))
	for i := range list {
		n := &list[i]
		if n.ID == "" || seen[n.ID] {
			n.ID = uuid.NewString()
		}
		seen[n.ID] = true

		if n.LegacyPassword != "" {
			if n.IsLocked && n.PasswordHash == "" {
				hash, err := HashPassword(n.LegacyPassword, bcryptCost)
				if err != nil {
					return []models.Note{}, fmt.Errorf("hash legacy password: %w", err)
				}
				n.PasswordHash = hash
				log.Infow("migrated note lock to hashed password", "note", n.ID)
			}
			n.LegacyPassword = ""
		}
		if n.IsLocked && n.PasswordHash == "" {
			n.IsLocked = false
		}
	}
	log.Debugw("notes loaded", "count", len(list))
	return list, nil
}

// Save writes the whole collection
func Save(ctx context.Context, store kv.Store, list []models.Note) error {
	data, err := models.MarshalNotes(list)
	if err != nil {
		return err
	}
	return store.Set(ctx, KeyNotes, data)
}

// LoadTheme returns the saved theme, or nil unless both keys are present
func LoadTheme(ctx context.Context, store kv.Store) (*Theme, error) {
	variant, err := store.Get(ctx, KeyThemeVariant)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	mode, err := store.Get(ctx, KeyColorMode)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &Theme{Variant: string(variant), Mode: string(mode)}, nil
}

// SaveTheme writes both theme keys
func SaveTheme(ctx context.Context, store kv.Store, t Theme) error {
	if err := store.Set(ctx, KeyThemeVariant, []byte(t.Variant)); err != nil {
		return err
	}
	return store.Set(ctx, KeyColorMode, []byte(t.Mode))
}

func ignoreNotFound(err error) error {
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	return err
}

// Persister writes collection snapshots in the background. Snapshots that
// arrive while a write is running are coalesced into the next write.
type Persister struct {
	store   kv.Store
	log     *logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	wake chan struct{}
	done chan struct{}
	exit chan struct{}

	mu      sync.Mutex
	latest  []models.Note
	queued  uint64
	written uint64
	lastErr error
	waiters []waiter
}

type waiter struct {
	seq uint64
	ch  chan struct{}
}

// NewPersister starts the writer goroutine
func NewPersister(store kv.Store, log *logger.Logger, m *metrics.Metrics) *Persister {
	p := &Persister{
		store:   store,
		log:     log.WithComponent("persister"),
		metrics: m,
		timeout: 5 * time.Second,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		exit:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Save queues a snapshot without waiting for it to be written
func (p *Persister) Save(list []models.Note) {
	p.mu.Lock()
	p.latest = list
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot queued so far is written and returns
// the error of the last write, if any
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.written >= p.queued {
		err := p.lastErr
		p.mu.Unlock()
		return err
	}
	w := waiter{seq: p.queued, ch: make(chan struct{})}
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()

	select {
	case <-w.ch:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.lastErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the goroutine
func (p *Persister) Close(ctx context.Context) error {
	err := p.Flush(ctx)
	close(p.done)
	<-p.exit
	return err
}

func (p *Persister) run() {
	defer close(p.exit)
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		p.mu.Lock()
		list, seq := p.latest, p.queued
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := Save(ctx, p.store, list)
		cancel()

		p.metrics.Persist(err)
		if err != nil {
			p.log.WithError(err).Errorw("failed to persist notes, changes stay in memory", "count", len(list))
		}

		p.mu.Lock()
		p.written = seq
		p.lastErr = err
		remaining := p.waiters[:0]
		for _, w := range p.waiters {
			if w.seq <= seq {
				close(w.ch)
			} else {
				remaining = append(remaining, w)
			}
		}
		p.waiters = remaining
		p.mu.Unlock()
	}
}

// Package scheduler decides when the store's FetchProfile runs: once when a
// session is acquired, when the app regains the foreground after going
// stale, and on a fixed interval while a session is present and the app is
// visible. The store itself knows nothing about timers or visibility.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/youverse/dupliverse/internal/client/models"
	"github.com/youverse/dupliverse/internal/client/session"
	"github.com/youverse/dupliverse/internal/client/store"
	"github.com/youverse/dupliverse/internal/logging"
)

// Phase is the session lifecycle state, for status display.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseHydrating     Phase = "hydrating"
	PhaseAuthenticated Phase = "authenticated"
)

// Config carries the scheduling policy knobs.
type Config struct {
	// SyncInterval is the background re-sync cadence while visible.
	SyncInterval time.Duration
	// StaleAfter is the minimum age of the last sync before a
	// visibility-regain triggers a fetch. Rapid foreground/background
	// flapping below this threshold causes no traffic.
	StaleAfter time.Duration
	// FetchTimeout bounds each scheduled fetch.
	FetchTimeout time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.SyncInterval <= 0 {
		out.SyncInterval = 5 * time.Minute
	}
	if out.StaleAfter <= 0 {
		out.StaleAfter = 2 * time.Minute
	}
	if out.FetchTimeout <= 0 {
		out.FetchTimeout = 15 * time.Second
	}
	return out
}

type Scheduler struct {
	store      *store.Store
	sessions   session.Provider
	visibility Visibility
	cfg        Config
	logger     logging.Logger

	mu    sync.Mutex
	phase Phase
}

func New(st *store.Store, sessions session.Provider, visibility Visibility, cfg Config, logger logging.Logger) *Scheduler {
	s := &Scheduler{
		store:      st,
		sessions:   sessions,
		visibility: visibility,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		phase:      PhaseAnonymous,
	}
	return s
}

// Phase reports the current lifecycle phase.
func (s *Scheduler) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Scheduler) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Run drives the sync loop until ctx is cancelled. The interval timer is
// torn down on return, so no periodic work survives a logged-out or
// shut-down client.
func (s *Scheduler) Run(ctx context.Context) error {
	s.hydrate(ctx)

	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	visible := true
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-s.sessions.Events():
			if !ok {
				return nil
			}
			s.handleEvent(ctx, ev)

		case v := <-s.visibility.Events():
			if v && !visible {
				s.onForeground(ctx)
			}
			visible = v

		case <-ticker.C:
			if !visible {
				continue
			}
			if st := s.store.State(); st.Session == nil {
				continue
			}
			if err := s.fetch(ctx); err != nil {
				s.logger.Warn(ctx, "background sync failed", "error", err)
			}
		}
	}
}

// hydrate performs the one-shot startup session check. The hydrated flag is
// set afterwards regardless of outcome so the UI can distinguish "not
// signed in" from "still checking".
func (s *Scheduler) hydrate(ctx context.Context) {
	s.setPhase(PhaseHydrating)
	defer s.store.SetHydrated(true)

	current, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session check failed", "error", err)
		s.setPhase(PhaseAnonymous)
		return
	}
	if current == nil {
		s.setPhase(PhaseAnonymous)
		return
	}

	s.store.SetSession(current)
	if err := s.fetch(ctx); err != nil {
		s.logger.Warn(ctx, "initial profile fetch failed", "error", err)
	}
	s.setPhase(PhaseAuthenticated)
}

func (s *Scheduler) handleEvent(ctx context.Context, ev models.Event) {
	switch ev.Type {
	case models.SignedIn, models.TokenRefreshed:
		if ev.Session == nil {
			return
		}
		s.store.SetSession(ev.Session)
		if err := s.fetch(ctx); err != nil {
			s.logger.Warn(ctx, "profile fetch after sign-in failed", "error", err)
		}
		s.store.SetHydrated(true)
		s.setPhase(PhaseAuthenticated)

	case models.SignedOut:
		s.store.ClearUserData()
		s.setPhase(PhaseAnonymous)
	}
}

// onForeground re-syncs when visibility returns, but only once the last
// sync is older than the staleness threshold.
func (s *Scheduler) onForeground(ctx context.Context) {
	st := s.store.State()
	if st.Session == nil {
		return
	}
	if time.Since(s.store.LastSyncAt()) <= s.cfg.StaleAfter {
		return
	}
	if err := s.fetch(ctx); err != nil {
		s.logger.Warn(ctx, "foreground sync failed", "error", err)
	}
}

func (s *Scheduler) fetch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return s.store.FetchProfile(ctx)
}

// Package store holds the client's single source of truth for the session
// and profile pair. All mutation goes through it: fetch with lazy creation
// on first login, optimistic updates with rollback, and a full reset on
// sign-out. Network calls run outside the lock; every in-flight operation
// closes over the snapshot and session id it captured at call time, so
// overlapping calls can neither clobber each other's rollback state nor
// apply a response that belongs to a previous session.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/youverse/dupliverse/internal/client/models"
	"github.com/youverse/dupliverse/internal/client/remote"
	"github.com/youverse/dupliverse/internal/client/repositories/state"
	"github.com/youverse/dupliverse/internal/logging"
)

type Store struct {
	remote remote.Client
	cache  state.Repository // nil disables persistence
	logger logging.Logger

	mu         sync.Mutex
	session    *models.Session
	profile    *models.Profile
	isLoading  bool
	isHydrated bool
	lastSyncAt time.Time
	syncStatus models.SyncStatus
	err        error

	nextSubID   int
	subscribers map[int]chan struct{}

	now func() time.Time // test seam
}

type Option func(*Store)

// WithCache enables warm-start persistence of {session, profile}.
func WithCache(cache state.Repository) Option {
	return func(s *Store) { s.cache = cache }
}

func New(remoteClient remote.Client, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		remote:      remoteClient,
		logger:      logger,
		syncStatus:  models.SyncIdle,
		subscribers: map[int]chan struct{}{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a point-in-time snapshot. The profile is deep-copied so the
// caller can never mutate store internals through it.
func (s *Store) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.State{
		Session:    s.session,
		Profile:    s.profile.Clone(),
		IsLoading:  s.isLoading,
		IsHydrated: s.isHydrated,
		LastSyncAt: s.lastSyncAt,
		SyncStatus: s.syncStatus,
		Err:        s.err,
	}
}

// Subscribe registers for change notifications. The returned channel gets a
// non-blocking tick after every published state change; cancel releases it.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan struct{}, 1)
	s.subscribers[id] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
	return ch, cancel
}

// notify must be called with the lock held.
func (s *Store) notify() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SetSession replaces the session reference. It does not trigger a fetch;
// callers (the scheduler) fetch explicitly.
func (s *Store) SetSession(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.persistLocked(context.Background())
	s.notify()
}

// SetHydrated marks the first session check as complete. Called by the
// scheduler regardless of that check's outcome.
func (s *Store) SetHydrated(hydrated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isHydrated = hydrated
	s.notify()
}

// FetchProfile loads the profile for the current session. Without a session
// it is a no-op. When the backend has no row yet, a default profile is
// created remotely and the server-returned record is published; the store
// never keeps a profile the backend did not confirm. On failure the prior
// profile stays untouched, the error is recorded for passive display, and a
// wrapped error is returned for the caller to handle.
func (s *Store) FetchProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil
	}
	session := s.session
	s.isLoading = true
	s.syncStatus = models.SyncSyncing
	s.notify()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.notify()
		s.mu.Unlock()
	}()

	profile, err := s.remote.GetProfile(ctx, session.ID)
	if errors.Is(err, remote.ErrNotFound) {
		profile, err = s.createDefault(ctx, session)
		if err != nil {
			s.recordFailure(session.ID, err)
			return fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
	} else if err != nil {
		s.recordFailure(session.ID, err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessionMatchesLocked(session.ID) {
		// The session changed while the request was in flight; the
		// response belongs to a principal we no longer represent.
		s.logger.Debug(ctx, "discarding stale profile response", "id", session.ID)
		return nil
	}
	s.profile = profile
	s.lastSyncAt = s.now()
	s.syncStatus = models.SyncSuccess
	s.err = nil
	s.persistLocked(ctx)
	s.notify()
	return nil
}

func (s *Store) createDefault(ctx context.Context, session *models.Session) (*models.Profile, error) {
	created, err := s.remote.CreateProfile(ctx, models.DefaultProfile(session))
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "created profile on first login", "id", created.ID)
	return created, nil
}

// UpdateProfile applies the patch optimistically, then writes through to the
// backend. On success the server's authoritative record replaces the
// optimistic guess. On failure the snapshot captured before publishing is
// restored, not a fresh read of current state, so an overlapping update's
// in-flight optimistic value is never clobbered by this call's rollback.
func (s *Store) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	sessionID := s.session.ID
	snapshot := s.profile
	s.profile = snapshot.Merge(patch)
	s.syncStatus = models.SyncSyncing
	s.notify()
	s.mu.Unlock()

	updated, err := s.remote.UpdateProfile(ctx, sessionID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.sessionMatchesLocked(sessionID) {
			s.profile = snapshot
			s.err = err
			s.syncStatus = models.SyncError
			s.notify()
		}
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	if !s.sessionMatchesLocked(sessionID) {
		s.logger.Debug(ctx, "discarding stale update response", "id", sessionID)
		return nil
	}
	s.profile = updated
	s.lastSyncAt = s.now()
	s.syncStatus = models.SyncSuccess
	s.err = nil
	s.persistLocked(ctx)
	s.notify()
	return nil
}

// ClearUserData resets the store to its signed-out shape and wipes the
// persisted cache. Idempotent.
func (s *Store) ClearUserData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.profile = nil
	s.isLoading = false
	s.isHydrated = false
	s.lastSyncAt = time.Time{}
	s.syncStatus = models.SyncIdle
	s.err = nil
	s.clearCacheLocked(context.Background())
	s.notify()
}

// LastSyncAt reports when the profile last matched the backend.
func (s *Store) LastSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncAt
}

func (s *Store) sessionMatchesLocked(id string) bool {
	return s.session != nil && s.session.ID == id
}

// recordFailure stores a fetch/create error for passive UI display, unless
// the session changed while the request was in flight.
func (s *Store) recordFailure(sessionID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessionMatchesLocked(sessionID) {
		return
	}
	s.err = err
	s.syncStatus = models.SyncError
	s.notify()
}

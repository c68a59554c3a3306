package store

import (
	"context"
	"encoding/json"

	"github.com/youverse/dupliverse/internal/client/models"
	"github.com/youverse/dupliverse/internal/common"
)

// The persisted shape is an explicit allow-list: exactly the session and
// profile, never transient fields (isLoading, error, syncStatus).
type persistedState struct {
	Session *models.Session `json:"session"`
	Profile *models.Profile `json:"profile"`
}

const cacheKey = common.StoreNamespace

// Restore pre-populates the store from the local cache so the UI can render
// the last known state before the first network round trip completes.
// A missing or unreadable cache entry is not an error; sync starts cold.
func (s *Store) Restore(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var ps persistedState
	if err := json.Unmarshal(raw, &ps); err != nil {
		s.logger.Warn(ctx, "discarding unreadable cached state", "error", err)
		return s.cache.Delete(ctx, cacheKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = ps.Session
	s.profile = ps.Profile
	s.notify()
	return nil
}

// persistLocked writes through the current {session, profile} pair.
// Must be called with the lock held. Cache failures are logged, never
// propagated: the in-memory state is already correct.
func (s *Store) persistLocked(ctx context.Context) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(persistedState{Session: s.session, Profile: s.profile})
	if err != nil {
		s.logger.Warn(ctx, "failed to encode state for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw); err != nil {
		s.logger.Warn(ctx, "failed to persist state", "error", err)
	}
}

func (s *Store) clearCacheLocked(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.logger.Warn(ctx, "failed to clear persisted state", "error", err)
	}
}

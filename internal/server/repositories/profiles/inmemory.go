package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/youverse/dupliverse/internal/common"
	"github.com/youverse/dupliverse/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and when the
// server runs without a database.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.Profile)}
}

func (r *InMemoryRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[profile.ID]; ok {
		return nil, common.ErrAlreadyExists
	}

	stored := clone(profile)
	stored.CreatedAt = time.Now()
	r.byID[profile.ID] = stored

	return clone(stored), nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(profile), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[profile.ID]
	if !ok {
		return nil, common.ErrNotFound
	}

	stored := clone(profile)
	stored.CreatedAt = existing.CreatedAt
	r.byID[profile.ID] = stored

	return clone(stored), nil
}

func (r *InMemoryRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, p := range r.byID {
		if id == excludeID || p.Username == nil {
			continue
		}
		if *p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func clone(p *models.Profile) *models.Profile {
	cp := *p
	if p.Username != nil {
		u := *p.Username
		cp.Username = &u
	}
	cp.Preferences = make(map[string]any, len(p.Preferences))
	for k, v := range p.Preferences {
		cp.Preferences[k] = v
	}
	return &cp
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/youverse/dupliverse/internal/common"
	"github.com/youverse/dupliverse/internal/dbx"
	"github.com/youverse/dupliverse/internal/server/models"
	"github.com/youverse/dupliverse/internal/server/repositories/repomanager"
)

// ProfileService implements the profile read/create/patch operations.
// Patches merge preferences per-key and never let the wallet go negative.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProfileService constructs a ProfileService. db may be nil when the
// repository manager is in-memory.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// Get returns the profile row or common.ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	repo := s.repomanager.Profiles(s.db)
	return repo.Get(ctx, id)
}

// Create inserts a new profile. The wallet must not start negative and the
// username, when set, must be unique.
func (s *ProfileService) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: profile id is required", common.ErrValidation)
	}
	if profile.WalletBalance < 0 {
		return nil, common.ErrNegativeBalance
	}
	if profile.Preferences == nil {
		profile.Preferences = map[string]any{}
	}

	repo := s.repomanager.Profiles(s.db)
	if profile.Username != nil {
		taken, err := repo.UsernameTaken(ctx, *profile.Username, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %v", err)
		}
		if taken {
			return nil, common.ErrUsernameTaken
		}
	}

	created, err := repo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating profile: %v", err)
	}
	return created, nil
}

// Patch applies a partial update inside a transaction: top-level fields are
// replaced when set, preference entries are merged per-key, and the result
// is saved as the new authoritative row.
func (s *ProfileService) Patch(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.WalletBalance != nil && *patch.WalletBalance < 0 {
		return nil, common.ErrNegativeBalance
	}

	var updated *models.Profile
	if err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		profile, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if patch.Username != nil {
			taken, err := repo.UsernameTaken(ctx, *patch.Username, id)
			if err != nil {
				return fmt.Errorf("error checking username: %v", err)
			}
			if taken {
				return common.ErrUsernameTaken
			}
			profile.Username = patch.Username
		}
		if patch.WalletBalance != nil {
			profile.WalletBalance = *patch.WalletBalance
		}
		if len(patch.Preferences) > 0 {
			if profile.Preferences == nil {
				profile.Preferences = map[string]any{}
			}
			for k, v := range patch.Preferences {
				profile.Preferences[k] = v
			}
		}

		updated, err = repo.Save(ctx, profile)
		return err
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProfileService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

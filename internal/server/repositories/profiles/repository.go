// Package profiles declares the repository contract for profile rows, keyed
// 1:1 to users by ID.
package profiles

import (
	"context"

	"github.com/youverse/dupliverse/internal/server/models"
)

type Repository interface {
	// Create inserts a profile row. An existing row for the same ID yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// Get returns the profile or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Profile, error)
	// Save overwrites the stored row for profile.ID. Absent rows yield
	// common.ErrNotFound.
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// UsernameTaken reports whether another user already holds the username.
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
}

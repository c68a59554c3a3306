package users

import (
	"context"

	"github.com/youverse/dupliverse/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns the user record or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns the user record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

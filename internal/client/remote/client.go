// Package remote talks to the hosted profile backend. The wire shape
// (paths, record fields, status codes) is dictated by the backend; this
// package only maps it onto Go types and sentinel errors.
package remote

import (
	"context"
	"errors"

	"github.com/youverse/dupliverse/internal/client/models"
)

var (
	// ErrUnavailable means the backend could not be reached or returned 5xx.
	ErrUnavailable = errors.New("profile service unavailable")

	// ErrNotFound is returned by GetProfile when no row exists for the id.
	ErrNotFound = errors.New("profile not found")

	// ErrUnauthorized means the access token was missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict means the write was rejected (e.g. username taken,
	// negative wallet balance).
	ErrConflict = errors.New("rejected by profile service")
)

// TokenSource supplies the current bearer token per call, so a token
// refreshed mid-session is picked up without rebuilding the client.
type TokenSource interface {
	Token() string
}

// Client is the read/write surface of the Remote Profile Service.
type Client interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error)
}

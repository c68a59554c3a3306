// Package session supplies the current signed-in identity and its lifecycle
// events. The store and scheduler consume this interface; the concrete
// implementation talks to the hosted auth backend.
package session

import (
	"context"

	"github.com/youverse/dupliverse/internal/client/models"
)

// Provider exposes the session lifecycle to the rest of the client.
//
// Contract:
//   - CurrentSession: one-shot query used at startup; (nil, nil) when
//     signed out.
//   - Events: stream of SIGNED_IN / SIGNED_OUT / TOKEN_REFRESHED changes.
//   - Token: current access token for authenticated calls; empty when
//     signed out.
type Provider interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	Events() <-chan models.Event
	Token() string
}

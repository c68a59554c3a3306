package store

import (
	"context"

	"github.com/youverse/dupliverse/internal/client/models"
)

// AddToWallet increments the wallet balance by amount through the normal
// optimistic-update path.
func (s *Store) AddToWallet(ctx context.Context, amount float64) error {
	return s.adjustWallet(ctx, amount)
}

// SubtractFromWallet decrements the wallet balance by amount, clamping the
// result at zero. The backend rejects negative balances outright; clamping
// client-side keeps a cosmetic over-spend from failing the whole update.
func (s *Store) SubtractFromWallet(ctx context.Context, amount float64) error {
	return s.adjustWallet(ctx, -amount)
}

func (s *Store) adjustWallet(ctx context.Context, delta float64) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	balance := s.profile.WalletBalance + delta
	s.mu.Unlock()

	if balance < 0 {
		balance = 0
	}
	return s.UpdateProfile(ctx, models.ProfilePatch{WalletBalance: &balance})
}

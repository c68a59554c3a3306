package models

import "time"

// Profile is the application record tied 1:1 to a user by ID.
type Profile struct {
	ID            string         `json:"id"`
	Username      *string        `json:"username"`
	WalletBalance float64        `json:"wallet_balance"`
	Preferences   map[string]any `json:"preferences"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ProfilePatch is a partial update as received over the wire. Nil fields
// are left untouched; Preferences entries are merged per-key.
type ProfilePatch struct {
	Username      *string        `json:"username,omitempty"`
	WalletBalance *float64       `json:"wallet_balance,omitempty"`
	Preferences   map[string]any `json:"preferences,omitempty"`
}

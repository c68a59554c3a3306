package models

import (
	"strings"
	"time"
)

// Profile is the mutable application record tied 1:1 to a Session by ID.
type Profile struct {
	ID            string         `json:"id"`
	Username      *string        `json:"username"`
	WalletBalance float64        `json:"wallet_balance"`
	Preferences   map[string]any `json:"preferences"`
	CreatedAt     time.Time      `json:"created_at,omitempty"`
}

// ProfilePatch is a partial update. Nil fields are left untouched;
// Preferences entries are merged per-key into the existing map.
type ProfilePatch struct {
	Username      *string        `json:"username,omitempty"`
	WalletBalance *float64       `json:"wallet_balance,omitempty"`
	Preferences   map[string]any `json:"preferences,omitempty"`
}

// Clone returns a deep copy of the profile. The Preferences map is copied
// so that mutations of the clone never leak into the original.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Preferences != nil {
		cp.Preferences = make(map[string]any, len(p.Preferences))
		for k, v := range p.Preferences {
			cp.Preferences[k] = v
		}
	}
	return &cp
}

// Merge applies the patch to a copy of the profile and returns it. Top-level
// fields are replaced when set; Preferences are shallow-merged so that
// updating one key does not erase sibling keys.
func (p *Profile) Merge(patch ProfilePatch) *Profile {
	merged := p.Clone()
	if patch.Username != nil {
		merged.Username = patch.Username
	}
	if patch.WalletBalance != nil {
		merged.WalletBalance = *patch.WalletBalance
	}
	if len(patch.Preferences) > 0 {
		if merged.Preferences == nil {
			merged.Preferences = make(map[string]any, len(patch.Preferences))
		}
		for k, v := range patch.Preferences {
			merged.Preferences[k] = v
		}
	}
	return merged
}

// DefaultProfile synthesizes the record created on first login: username is
// the local part of the email when present, wallet balance zero, empty
// preferences.
func DefaultProfile(session *Session) *Profile {
	var username *string
	if session.Email != "" {
		local := strings.SplitN(session.Email, "@", 2)[0]
		if local != "" {
			username = &local
		}
	}
	return &Profile{
		ID:          session.ID,
		Username:    username,
		Preferences: map[string]any{},
	}
}

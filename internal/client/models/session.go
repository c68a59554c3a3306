// Package models defines the client-side domain records: the provider-issued
// Session identity and the application-owned Profile keyed by it.
package models

import "time"

// Session is the provider-issued identity reference for the signed-in
// principal. The store holds it read-only; its lifecycle belongs to the
// session provider.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

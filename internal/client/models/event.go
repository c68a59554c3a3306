package models

// EventType enumerates session lifecycle notifications emitted by the
// session provider.
type EventType string

const (
	SignedIn       EventType = "SIGNED_IN"
	SignedOut      EventType = "SIGNED_OUT"
	TokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event carries a session lifecycle change. Session is nil for SignedOut.
type Event struct {
	Type    EventType
	Session *Session
}

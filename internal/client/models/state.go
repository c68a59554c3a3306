package models

import "time"

// SyncStatus is a derived display field describing the last sync attempt.
// It is not used for control flow beyond UI affordances.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// State is a point-in-time snapshot of the store, safe to read after the
// store has moved on. IsHydrated reports whether the first session check
// has completed (success or failure); it gates rendering "not signed in"
// versus "still checking".
type State struct {
	Session    *Session
	Profile    *Profile
	IsLoading  bool
	IsHydrated bool
	LastSyncAt time.Time
	SyncStatus SyncStatus
	Err        error
}

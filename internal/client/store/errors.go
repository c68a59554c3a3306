package store

import "errors"

var (
	// Precondition errors: surfaced synchronously, never retried.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoProfile        = errors.New("no profile loaded")

	// Remote operation errors. Wrapped around the transport error so callers
	// can match the phase with errors.Is and still see the cause.
	ErrFetchFailed  = errors.New("profile fetch failed")
	ErrCreateFailed = errors.New("first-login profile create failed")
	ErrUpdateFailed = errors.New("profile update failed")
)

package domain

import "errors"

// Failure taxonomy for admission and proxying. Handlers map these to HTTP
// statuses in exactly one place.
var (
	// ErrInvalidCredential means a credential was presented but does not
	// resolve to an active record.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrSessionNotFound means a validated session token referenced a shop
	// that has no stored session; the app must be reinstalled.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotFound covers ownership mismatches; deliberately indistinguishable
	// from a record that never existed.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed or missing request fields.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream means the merchant data API call failed; detail is logged
	// server-side and never surfaced to the caller.
	ErrUpstream = errors.New("upstream request failed")
)

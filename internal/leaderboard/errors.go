package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrStoreUnavailable = errors.New("raw result store unavailable")
	ErrIdentityNotFound = errors.New("identity not found in ranking")
)

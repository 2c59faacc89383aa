package resultstore

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnavailable = errors.New("result store unavailable")
	ErrClosed      = errors.New("result store closed")
)

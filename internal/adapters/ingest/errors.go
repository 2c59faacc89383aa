package ingest

import (
	"errors"
)

// Sentinel kinds for ingest errors.
var (
	ErrQueueFull   = errors.New("ingest queue full")
	ErrQueueClosed = errors.New("ingest queue closed")
)

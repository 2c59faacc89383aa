package seedresults

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
	StatusTooBusy  = 503
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	IngestDrainDelay     = 3 * time.Second
	PercentageMultiplier = 100
	WindowSampleSize     = 25
)

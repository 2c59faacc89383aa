// Package model contains domain models passed between layers.
package model

import "time"

// TestResultRecord represents one completed test attempt as delivered by the
// raw result store, before deduplication.
type TestResultRecord struct {
	ID          string    // store-assigned record id
	IdentityKey string    // participant email; empty for anonymous attempts
	DisplayName string    // name shown on the leaderboard
	Score       int       // final test score
	Location    string    // self-reported location label
	Gender      string    // optional
	Age         int       // optional, 0 when not provided
	TestedAt    time.Time // completion timestamp
	SubjectID   string    // registered participant id; empty for anonymous
}

// Anonymous reports whether the record belongs to an unregistered participant.
func (r TestResultRecord) Anonymous() bool {
	return r.SubjectID == ""
}

// DeduplicatedEntry is the single record kept per identity: the attempt with
// the maximum score among all raw records sharing that identity key.
type DeduplicatedEntry struct {
	IdentityKey string
	DisplayName string
	Score       int
	Location    string
	TestedAt    time.Time
	SubjectID   string
}

// Package types contains common types used across the application
package types

import "time"

// Badge is the coarse score-bracket label attached to a ranked entry.
type Badge string

// Badge labels in descending score order.
const (
	BadgeGenius   Badge = "genius"
	BadgeSuperior Badge = "superior"
	BadgeAbove    Badge = "above"
	BadgeGood     Badge = "good"
)

// Score thresholds for badge assignment, inclusive lower bounds.
const (
	GeniusThreshold   = 140
	SuperiorThreshold = 130
	AboveThreshold    = 115
)

// BadgeForScore maps a score to its badge. First match wins in
// descending threshold order.
func BadgeForScore(score int) Badge {
	switch {
	case score >= GeniusThreshold:
		return BadgeGenius
	case score >= SuperiorThreshold:
		return BadgeSuperior
	case score >= AboveThreshold:
		return BadgeAbove
	default:
		return BadgeGood
	}
}

// Entry represents a ranked leaderboard entry.
type Entry struct {
	Rank        int       `json:"rank"`
	DisplayName string    `json:"displayName"`
	Score       int       `json:"score"`
	Location    string    `json:"location,omitempty"`
	TestedAt    time.Time `json:"testedAt"`
	Badge       Badge     `json:"badge"`
	IsAnonymous bool      `json:"isAnonymous"`
	SubjectID   string    `json:"subjectId,omitempty"`
	IdentityKey string    `json:"-"` // lookup key, never serialized
}

// Stats is the aggregate statistics snapshot computed over one refresh.
type Stats struct {
	TotalParticipants   int       `json:"totalParticipants"`
	HighestScore        int       `json:"highestScore"`
	AverageScore        int       `json:"averageScore"`
	MedianScore         float64   `json:"medianScore"`
	TopPercentileScore  int       `json:"topPercentileScore"`
	GeniusPercentage    float64   `json:"geniusPercentage"`
	RecentGrowthPercent float64   `json:"recentGrowthPercent"`
	AverageImprovement  float64   `json:"averageImprovement"`
	ComputedAt          time.Time `json:"computedAt"`
}

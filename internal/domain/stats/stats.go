// Package stats computes the aggregate statistics snapshot for one
// leaderboard refresh.
package stats

import (
	"context"
	"math"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
)

// Default statistics configuration constants.
const (
	defaultRecentWindow = 30 * 24 * time.Hour
	topShareDivisor     = 10 // top 10% cutoff index is n/10 (floored)
)

// Option applies a configuration option to the calculator.
type Option func(*calculator)

// WithRecentWindow sets the lookback window for the recent-growth metric.
func WithRecentWindow(window time.Duration) Option {
	return func(c *calculator) {
		if window > 0 {
			c.recentWindow = window
		}
	}
}

// Input carries both populations a snapshot is computed from: the ranked
// deduplicated entries and the raw record set they were collapsed from.
type Input struct {
	Ranked []types.Entry            // sorted by score descending
	Raw    []model.TestResultRecord // unfiltered store contents
	Now    time.Time                // reference time for window metrics
}

// Calculator computes a statistics snapshot from a refresh pass.
type Calculator interface {
	Compute(ctx context.Context, in Input) types.Stats
}

type calculator struct {
	recentWindow time.Duration
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) Calculator {
	c := &calculator{
		recentWindow: defaultRecentWindow,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compute implements Calculator.
//
// Growth is intentionally measured against the raw record population, not
// the deduplicated one: it tracks attempt volume, while every other metric
// describes the ranked participants.
func (c *calculator) Compute(_ context.Context, in Input) types.Stats {
	out := types.Stats{ComputedAt: in.Now}

	n := len(in.Ranked)
	out.TotalParticipants = n

	if n > 0 {
		out.HighestScore = in.Ranked[0].Score

		sum := 0
		geniuses := 0
		for _, e := range in.Ranked {
			sum += e.Score
			if e.Score >= types.GeniusThreshold {
				geniuses++
			}
		}
		out.AverageScore = int(math.Round(float64(sum) / float64(n)))
		out.GeniusPercentage = round1(100 * float64(geniuses) / float64(n))
		out.MedianScore = median(in.Ranked)
		out.TopPercentileScore = topPercentile(in.Ranked)
	}

	out.RecentGrowthPercent = c.recentGrowth(in.Raw, in.Now)
	out.AverageImprovement = averageImprovement(in.Raw)

	return out
}

// median averages the two middle scores for even counts and takes the single
// middle score for odd counts. Entries are already sorted descending.
func median(ranked []types.Entry) float64 {
	n := len(ranked)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return float64(ranked[n/2-1].Score+ranked[n/2].Score) / 2
	}
	return float64(ranked[n/2].Score)
}

// topPercentile returns the score opening the top 10%: the element at index
// floor(n*0.1) of the descending sequence. The index is floored, never
// rounded up, so small leaderboards resolve to the highest score.
func topPercentile(ranked []types.Entry) int {
	n := len(ranked)
	if n == 0 {
		return 0
	}
	idx := n / topShareDivisor
	if idx < 0 || idx >= n {
		return ranked[0].Score
	}
	return ranked[idx].Score
}

func (c *calculator) recentGrowth(raw []model.TestResultRecord, now time.Time) float64 {
	if len(raw) == 0 {
		return 0
	}
	cutoff := now.Add(-c.recentWindow)
	recent := 0
	for _, r := range raw {
		if r.TestedAt.After(cutoff) {
			recent++
		}
	}
	return round1(100 * float64(recent) / float64(len(raw)))
}

// averageImprovement is the mean score delta between each identity's latest
// and earliest attempt, over identities with at least two raw attempts.
// Identity-less records are skipped. On equal timestamps the record
// encountered first keeps its position.
func averageImprovement(raw []model.TestResultRecord) float64 {
	type span struct {
		earliest model.TestResultRecord
		latest   model.TestResultRecord
		attempts int
	}

	spans := make(map[string]*span)
	for _, r := range raw {
		if r.IdentityKey == "" {
			continue
		}
		s, ok := spans[r.IdentityKey]
		if !ok {
			spans[r.IdentityKey] = &span{earliest: r, latest: r, attempts: 1}
			continue
		}
		s.attempts++
		if r.TestedAt.Before(s.earliest.TestedAt) {
			s.earliest = r
		}
		if r.TestedAt.After(s.latest.TestedAt) {
			s.latest = r
		}
	}

	total := 0
	repeaters := 0
	for _, s := range spans {
		if s.attempts < 2 {
			continue
		}
		total += s.latest.Score - s.earliest.Score
		repeaters++
	}
	if repeaters == 0 {
		return 0
	}
	return round1(float64(total) / float64(repeaters))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

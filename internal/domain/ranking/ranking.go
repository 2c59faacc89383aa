// Package ranking orders deduplicated entries and assigns leaderboard ranks.
package ranking

import (
	"context"
	"sort"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
)

// Ranker turns the deduplicated entry set into the ranked leaderboard.
type Ranker interface {
	// Rank sorts entries by score descending and assigns contiguous
	// 1-based ranks: rank = position + 1. Equal scores never share a
	// rank; they receive distinct adjacent ranks. The sort is stable, so
	// ties keep their input order.
	Rank(ctx context.Context, entries []model.DeduplicatedEntry) []types.Entry
}

// descendingRanker implements Ranker with a stable descending sort over a
// copy of the input.
type descendingRanker struct{}

// NewDescendingRanker creates the standard leaderboard ranker.
func NewDescendingRanker() Ranker {
	return descendingRanker{}
}

// Rank implements Ranker.
func (descendingRanker) Rank(_ context.Context, entries []model.DeduplicatedEntry) []types.Entry {
	sorted := make([]model.DeduplicatedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ranked := make([]types.Entry, len(sorted))
	for i, e := range sorted {
		ranked[i] = types.Entry{
			Rank:        i + 1,
			DisplayName: e.DisplayName,
			Score:       e.Score,
			Location:    e.Location,
			TestedAt:    e.TestedAt,
			Badge:       types.BadgeForScore(e.Score),
			IsAnonymous: e.SubjectID == "",
			SubjectID:   e.SubjectID,
			IdentityKey: e.IdentityKey,
		}
	}

	return ranked
}

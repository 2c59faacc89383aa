// Package dedupe collapses raw test-attempt records into one entry per
// participant identity.
package dedupe

import (
	"context"

	"github.com/google/uuid"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
)

// Deduper reduces a raw record collection to at most one entry per identity.
type Deduper interface {
	// Collapse returns one DeduplicatedEntry per distinct identity key,
	// keeping the record with the maximum score for that key. On equal
	// scores the first-encountered record wins (strict > comparison), so
	// the result depends on input iteration order unless the raw store
	// delivers records in a stable order. Output preserves the order in
	// which identity keys were first encountered.
	Collapse(ctx context.Context, records []model.TestResultRecord) []model.DeduplicatedEntry
}

// maxScoreDeduper implements Deduper with a single pass over the input and a
// key -> output-index map. O(n) time, O(u) space for u unique identities.
type maxScoreDeduper struct {
	keepAnonymous bool
}

// NewMaxScoreDeduper creates a deduper with configuration options.
func NewMaxScoreDeduper(opts ...Option) Deduper {
	d := &maxScoreDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Collapse implements Deduper.
func (d *maxScoreDeduper) Collapse(_ context.Context, records []model.TestResultRecord) []model.DeduplicatedEntry {
	index := make(map[string]int, len(records))
	out := make([]model.DeduplicatedEntry, 0, len(records))

	for _, r := range records {
		key := r.IdentityKey
		if key == "" {
			// Records without an identity key are anonymous attempts.
			// Default behavior drops them from the ranking; with
			// anonymous retention enabled each row keeps a synthetic
			// key of its own so entries never merge.
			if !d.keepAnonymous {
				continue
			}
			key = syntheticKey(r)
		}

		if i, seen := index[key]; seen {
			if r.Score > out[i].Score {
				out[i] = toEntry(key, r)
			}
			continue
		}

		index[key] = len(out)
		out = append(out, toEntry(key, r))
	}

	return out
}

// syntheticKey derives a per-row identity for anonymous records. The record
// id is stable across refreshes; a random id is a last resort for rows the
// store delivered without one.
func syntheticKey(r model.TestResultRecord) string {
	if r.ID != "" {
		return "anon:" + r.ID
	}
	return "anon:" + uuid.NewString()
}

func toEntry(key string, r model.TestResultRecord) model.DeduplicatedEntry {
	return model.DeduplicatedEntry{
		IdentityKey: key,
		DisplayName: r.DisplayName,
		Score:       r.Score,
		Location:    r.Location,
		TestedAt:    r.TestedAt,
		SubjectID:   r.SubjectID,
	}
}

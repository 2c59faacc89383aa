// Package resultstore provides access to raw test-attempt records.
package resultstore

import (
	"context"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
)

// Store supplies and accepts raw test-attempt records. The engine
// deduplicates and paginates in memory, so FetchAll returns the full
// collection in one call.
type Store interface {
	// FetchAll returns every stored record.
	FetchAll(ctx context.Context) ([]model.TestResultRecord, error)

	// Insert persists one record and returns its id. A missing record id
	// is assigned by the store.
	Insert(ctx context.Context, rec model.TestResultRecord) (string, error)

	// Close releases store resources.
	Close() error
}

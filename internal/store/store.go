// Package store persists usage events. The events table is append-only:
// rows are inserted once and never deleted by this code; the single
// permitted mutation is filling in actual_cost when billing data arrives.
package store

import (
	"context"
	"time"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// Store is the persistence contract for the usage ledger. Implementations
// must support concurrent inserts without cross-record coordination; each
// insert is independent under a caller-generated id.
type Store interface {
	// InsertEvent persists one immutable usage event.
	InsertEvent(ctx context.Context, e model.UsageEvent) error

	// UpdateActualCost patches actual_cost on a previously written event.
	// Last write wins; reconciliation runs at most once per event in
	// practice.
	UpdateActualCost(ctx context.Context, eventID string, actualCost float64) error

	// ListEvents returns all events with timestamp in [start, end],
	// oldest first.
	ListEvents(ctx context.Context, start, end time.Time) ([]model.UsageEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

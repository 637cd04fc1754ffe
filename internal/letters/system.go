package letters

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campusworks/letterflow/pkg/pagination"
)

// System defines the public contract for letter domain operations. The
// engine's agents consume Find, PendingEvents, and Update; the operational
// API consumes List, Find, and Report.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Letter], error)

	Find(ctx context.Context, id uuid.UUID) (*Letter, error)

	// PendingEvents returns the letters eligible for processing at the
	// given instant: actionable statuses plus Pending letters whose
	// approval deadline has elapsed, most recent submission first.
	PendingEvents(ctx context.Context, now time.Time) ([]Letter, error)

	// Update applies a partial mutation to a single letter record.
	// Fields not set in the update are never clobbered.
	Update(ctx context.Context, id uuid.UUID, upd Update) error

	// Report summarizes stage bottlenecks and status totals.
	Report(ctx context.Context) (*Report, error)
}

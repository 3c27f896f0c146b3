package services

import (
	"context"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// ReconciliationSvcFacade builds the per-visit reporting view by joining the
// visit and custody ledgers. Binding is strictly by visit ID so records from a
// worker's earlier visits are never attributed to the current one.
type ReconciliationSvcFacade interface {
	// VisitSummary returns the visit together with its borrowed/returned
	// counts and open records, computed from ledger state at call time.
	VisitSummary(ctx context.Context, visitID string) (*domain.VisitSummary, error)

	// DailyTimeline merges a worker's check-in/check-out and borrow/return
	// events for the given day (site-local), sorted ascending by time. The
	// result always has at least one entry; a NO_ACTIVITY placeholder stands
	// in when nothing happened.
	DailyTimeline(ctx context.Context, workerID string, day time.Time) ([]domain.ActivityEntry, error)
}

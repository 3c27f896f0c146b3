package repositories

import (
	"context"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// StatsRepositoryFacade defines the read-side projections the stats aggregator
// is built on. Every value is recomputed from ledger state on each call;
// nothing here is stored redundantly.
type StatsRepositoryFacade interface {
	// CountVisitsByStatus counts visits with the given status, optionally
	// scoped to one site.
	CountVisitsByStatus(ctx context.Context, status domain.VisitStatus, siteID *string) (int, error)

	// CountCheckInsBetween counts visits whose check-in time falls in [from, to).
	CountCheckInsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error)

	// CountCheckOutsBetween counts visits whose check-out time falls in [from, to).
	CountCheckOutsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error)

	// CountBorrowsBetween counts borrow records created in [from, to).
	CountBorrowsBetween(ctx context.Context, from, to time.Time) (int, error)

	// CountOpenBorrows counts borrow records with no return date, with no day
	// filter. This is a backlog count, not a daily count.
	CountOpenBorrows(ctx context.Context) (int, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// VisitFilter narrows ListVisits results. Nil fields are ignored.
type VisitFilter struct {
	WorkerID *string
	SiteID   *string
	Status   *domain.VisitStatus
	From     *time.Time // CheckInTime >= From
	To       *time.Time // CheckInTime < To
}

// VisitReader defines read operations for visit ledger data
type VisitReader interface {
	// FindVisitByID retrieves a specific visit by its unique identifier.
	FindVisitByID(ctx context.Context, visitID string) (*domain.Visit, error)

	// FindOpenVisitByWorker retrieves the worker's current ON_SITE visit, if any.
	// Returns apperrors.ErrNotFound when the worker has no open visit.
	FindOpenVisitByWorker(ctx context.Context, workerID string) (*domain.Visit, error)

	// FindOpenVisitByWorkerAndSite retrieves the ON_SITE visit for a (worker, site) pair.
	FindOpenVisitByWorkerAndSite(ctx context.Context, workerID, siteID string) (*domain.Visit, error)

	// ListVisits retrieves a filtered, paginated list of visits using token-based pagination.
	// It returns the visits, a token for the next page, and an error.
	ListVisits(ctx context.Context, filter VisitFilter, limit int, nextToken *string) ([]domain.Visit, *string, error)

	// FindVisitsByWorkerBetween retrieves a worker's visits whose check-in or
	// check-out falls inside [from, to). Used by the reconciliation timeline.
	FindVisitsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.Visit, error)
}

// VisitWriter defines write operations for visit ledger data
type VisitWriter interface {
	// SaveVisit persists a new visit. The database rejects a second ON_SITE
	// visit for the same (worker, site) pair; the violation surfaces as
	// apperrors.ErrDuplicate so racing check-ins lose cleanly.
	SaveVisit(ctx context.Context, visit domain.Visit) error

	// CloseVisit transitions an ON_SITE visit to LEFT and appends the supplied
	// exit remarks (keyed by item code) to the visit's open borrow records,
	// all within one database transaction. Returns apperrors.ErrConflict when
	// the visit is no longer ON_SITE, so the transition happens exactly once.
	CloseVisit(ctx context.Context, visitID string, checkOutTime time.Time, itemRemarks map[string]string, userID string, now time.Time) (*domain.Visit, error)
}

// VisitRepositoryFacade combines all visit-related repository interfaces
type VisitRepositoryFacade interface {
	VisitReader
	VisitWriter
}

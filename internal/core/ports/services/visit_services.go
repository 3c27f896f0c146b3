package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

// VisitReaderSvc defines read operations for the visit ledger
type VisitReaderSvc interface {
	// GetVisit retrieves a visit by ID.
	GetVisit(ctx context.Context, visitID string) (*domain.Visit, error)

	// ListVisits retrieves a filtered, paginated list of visits.
	ListVisits(ctx context.Context, params dto.ListVisitsParams) (*dto.ListVisitsResponse, error)
}

// VisitWriterSvc defines the two lifecycle transitions of a visit
type VisitWriterSvc interface {
	// CheckIn opens a new visit for a worker at a site. Fails with
	// ErrAlreadyOnSite (carrying the prior check-in time) when an open visit
	// already exists for the (worker, site) pair.
	CheckIn(ctx context.Context, req dto.CheckInRequest, registrarID string) (*domain.Visit, error)

	// CheckOut closes an ON_SITE visit after the exit gate passes: the gate
	// card must be confirmed returned and every open borrow record must carry
	// a non-empty remark. Remarks are persisted onto the records as part of
	// the same transaction.
	CheckOut(ctx context.Context, visitID string, req dto.CheckOutRequest, registrarID string) (*domain.Visit, error)
}

// VisitSvcFacade combines all visit ledger service interfaces
type VisitSvcFacade interface {
	VisitReaderSvc
	VisitWriterSvc
}

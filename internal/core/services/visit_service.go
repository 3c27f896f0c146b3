package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
	"github.com/gatecrew/site_custody_app/internal/middleware"
)

var (
	// ErrAlreadyOnSite means the worker already has an open visit at this site.
	ErrAlreadyOnSite = errors.New("worker is already on site")
	// ErrAlreadyLeft means the visit was closed before this request arrived.
	ErrAlreadyLeft = errors.New("visit is already closed")
	// ErrExitBlocked means the exit gate refused to close the visit.
	ErrExitBlocked = errors.New("exit conditions not satisfied")
	// ErrSiteInactive means the target site does not accept check-ins.
	ErrSiteInactive = errors.New("site is not active")
)

// AlreadyOnSiteError carries the prior visit's check-in time so the operator
// can be told since when the worker has been on site.
type AlreadyOnSiteError struct {
	VisitID     string
	CheckInTime time.Time
}

func (e *AlreadyOnSiteError) Error() string {
	return fmt.Sprintf("worker is already on site since %s", e.CheckInTime.Format(time.RFC3339))
}

func (e *AlreadyOnSiteError) Is(target error) bool {
	return target == ErrAlreadyOnSite
}

// ExitBlockedError reports which of the two gate conditions failed.
type ExitBlockedError struct {
	CardOutstanding bool
	MissingRemarks  []string
}

func (e *ExitBlockedError) Error() string {
	if e.CardOutstanding && len(e.MissingRemarks) > 0 {
		return fmt.Sprintf("gate card not returned and %d unreturned item(s) lack a remark", len(e.MissingRemarks))
	}
	if e.CardOutstanding {
		return "gate card not returned"
	}
	return fmt.Sprintf("%d unreturned item(s) lack a remark", len(e.MissingRemarks))
}

func (e *ExitBlockedError) Is(target error) bool {
	return target == ErrExitBlocked
}

// visitService owns the visit lifecycle: NONE -> ON_SITE -> LEFT, with LEFT
// terminal per visit instance. The one-open-visit invariant is checked here
// and enforced again by the database, so a racing second check-in loses with
// ErrAlreadyOnSite rather than creating a duplicate.
type visitService struct {
	visitRepo    portsrepo.VisitRepositoryFacade
	borrowRepo   portsrepo.BorrowReader
	siteRepo     portsrepo.SiteRepositoryFacade
	directorySvc portssvc.DirectorySvcFacade
	siteTZ       *time.Location
}

// NewVisitService creates a new VisitService.
func NewVisitService(visitRepo portsrepo.VisitRepositoryFacade, borrowRepo portsrepo.BorrowReader, siteRepo portsrepo.SiteRepositoryFacade, directorySvc portssvc.DirectorySvcFacade, siteTZ *time.Location) portssvc.VisitSvcFacade {
	if siteTZ == nil {
		siteTZ = time.UTC
	}
	return &visitService{
		visitRepo:    visitRepo,
		borrowRepo:   borrowRepo,
		siteRepo:     siteRepo,
		directorySvc: directorySvc,
		siteTZ:       siteTZ,
	}
}

var _ portssvc.VisitSvcFacade = (*visitService)(nil)

// CheckIn opens a new visit for the resolved worker at the given site.
func (s *visitService) CheckIn(ctx context.Context, req dto.CheckInRequest, registrarID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CardID == "" {
		return nil, fmt.Errorf("%w: a gate card must be assigned at check-in", apperrors.ErrValidation)
	}

	worker, err := s.directorySvc.ResolveWorker(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	site, err := s.siteRepo.FindSiteByID(ctx, req.SiteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown site %s", apperrors.ErrValidation, req.SiteID)
		}
		logger.Error("Failed to fetch site for check-in", slog.String("error", err.Error()), slog.String("site_id", req.SiteID))
		return nil, fmt.Errorf("failed to fetch site: %w", err)
	}
	if !site.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrSiteInactive, site.Name)
	}

	// Pre-check the invariant so the common case gets a descriptive error
	// with the prior check-in time. The partial unique index remains the
	// authoritative enforcement for concurrent check-ins.
	if prior, err := s.visitRepo.FindOpenVisitByWorkerAndSite(ctx, worker.WorkerID, req.SiteID); err == nil {
		logger.Warn("Check-in rejected, worker already on site",
			slog.String("worker_id", worker.WorkerID),
			slog.String("site_id", req.SiteID),
			slog.Time("prior_check_in", prior.CheckInTime))
		return nil, &AlreadyOnSiteError{VisitID: prior.VisitID, CheckInTime: prior.CheckInTime}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for open visit", slog.String("error", err.Error()), slog.String("worker_id", worker.WorkerID))
		return nil, fmt.Errorf("failed to check for open visit: %w", err)
	}

	now := time.Now().UTC()

	// Snapshot the worker's identity document at time of entry so later
	// profile edits do not retroactively alter this visit record.
	contactPhone := worker.Phone
	if req.ContactPhone != nil && *req.ContactPhone != "" {
		contactPhone = *req.ContactPhone
	}

	visit := domain.Visit{
		VisitID:      uuid.NewString(),
		WorkerID:     worker.WorkerID,
		SiteID:       req.SiteID,
		CheckInTime:  now,
		Status:       domain.VisitOnSite,
		CardID:       req.CardID,
		RegistrarID:  registrarID,
		ContactPhone: contactPhone,
		IDDocType:    worker.IDDocType,
		IDDocNumber:  worker.IDDocNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     registrarID,
			LastUpdatedAt: now,
			LastUpdatedBy: registrarID,
		},
	}

	if err := s.visitRepo.SaveVisit(ctx, visit); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race to a concurrent check-in. Re-read the winner so
			// the operator still sees when the worker entered.
			if prior, findErr := s.visitRepo.FindOpenVisitByWorkerAndSite(ctx, worker.WorkerID, req.SiteID); findErr == nil {
				return nil, &AlreadyOnSiteError{VisitID: prior.VisitID, CheckInTime: prior.CheckInTime}
			}
			return nil, ErrAlreadyOnSite
		}
		logger.Error("Failed to save visit", slog.String("error", err.Error()), slog.String("worker_id", worker.WorkerID))
		return nil, fmt.Errorf("failed to save visit: %w", err)
	}

	logger.Info("Worker checked in",
		slog.String("visit_id", visit.VisitID),
		slog.String("worker_id", worker.WorkerID),
		slog.String("site_id", req.SiteID),
		slog.String("card_id", req.CardID))
	return &visit, nil
}

// CheckOut closes an ON_SITE visit. The exit gate is evaluated server-side:
// the UI runs the same check as a courtesy, but only this path is
// authoritative. Remarks for unreturned items are persisted onto the borrow
// records inside the closing transaction; the items themselves stay BORROWED.
func (s *visitService) CheckOut(ctx context.Context, visitID string, req dto.CheckOutRequest, registrarID string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch visit for check-out", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		}
		return nil, err
	}
	if visit.Status != domain.VisitOnSite {
		return nil, fmt.Errorf("%w: visit %s", ErrAlreadyLeft, visitID)
	}

	openRecords, err := s.borrowRepo.FindOpenBorrowRecordsByVisitID(ctx, visitID)
	if err != nil {
		logger.Error("Failed to fetch open borrow records for exit gate", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		return nil, fmt.Errorf("failed to fetch open borrow records: %w", err)
	}

	gate := domain.EvaluateExitGate(openRecords, domain.ExitGateInput{
		CardReturned: req.CardReturned,
		ItemRemarks:  req.ItemRemarks,
	})
	if !gate.Allowed {
		logger.Warn("Exit denied by gate",
			slog.String("visit_id", visitID),
			slog.Bool("card_outstanding", gate.CardOutstanding),
			slog.Int("missing_remarks", len(gate.MissingRemarks)))
		return nil, &ExitBlockedError{
			CardOutstanding: gate.CardOutstanding,
			MissingRemarks:  gate.MissingRemarks,
		}
	}

	now := time.Now().UTC()
	checkOutTime := now
	if req.CheckOutTime != nil {
		checkOutTime = req.CheckOutTime.UTC()
	}

	closed, err := s.visitRepo.CloseVisit(ctx, visitID, checkOutTime, req.ItemRemarks, registrarID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Another request closed the visit between our read and the update.
			return nil, fmt.Errorf("%w: visit %s", ErrAlreadyLeft, visitID)
		}
		logger.Error("Failed to close visit", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		return nil, fmt.Errorf("failed to close visit: %w", err)
	}

	logger.Info("Worker checked out",
		slog.String("visit_id", visitID),
		slog.String("worker_id", closed.WorkerID),
		slog.Int("unreturned_items", len(openRecords)))
	return closed, nil
}

// GetVisit retrieves a visit by ID.
func (s *visitService) GetVisit(ctx context.Context, visitID string) (*domain.Visit, error) {
	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch visit", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		}
		return nil, err
	}
	return visit, nil
}

// ListVisits retrieves a filtered, paginated list of visits.
func (s *visitService) ListVisits(ctx context.Context, params dto.ListVisitsParams) (*dto.ListVisitsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter, err := s.buildFilter(params)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	visits, nextToken, err := s.visitRepo.ListVisits(ctx, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list visits", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	resp := dto.ToListVisitsResponse(visits, nextToken)
	return &resp, nil
}

// buildFilter translates the query parameters into a repository filter.
// The today shortcut expands to the current site-local calendar day.
func (s *visitService) buildFilter(params dto.ListVisitsParams) (portsrepo.VisitFilter, error) {
	filter := portsrepo.VisitFilter{
		WorkerID: params.WorkerID,
		SiteID:   params.SiteID,
	}

	if params.Status != nil {
		status := domain.VisitStatus(*params.Status)
		filter.Status = &status
	}

	if params.Today {
		from, to := dayBounds(time.Now(), s.siteTZ)
		filter.From = &from
		filter.To = &to
		return filter, nil
	}

	if params.From != nil {
		from, err := parseTimeParam(*params.From, s.siteTZ)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid from parameter: %v", apperrors.ErrValidation, err)
		}
		filter.From = &from
	}
	if params.To != nil {
		to, err := parseTimeParam(*params.To, s.siteTZ)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid to parameter: %v", apperrors.ErrValidation, err)
		}
		filter.To = &to
	}
	return filter, nil
}

// dayBounds returns the UTC instants bounding the calendar day containing t
// in the given location.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// parseTimeParam accepts RFC3339 timestamps or bare YYYY-MM-DD dates
// (interpreted in the site's timezone).
func parseTimeParam(value string, loc *time.Location) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.UTC(), nil
}

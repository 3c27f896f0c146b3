package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/middleware"
)

// reconciliationService joins the visit and custody ledgers into the per-visit
// reporting view. The join key is always the visit ID, never the worker ID
// alone, so records from a worker's earlier visits are never attributed to the
// current one.
type reconciliationService struct {
	visitRepo  portsrepo.VisitReader
	borrowRepo portsrepo.BorrowReader
	siteTZ     *time.Location
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(visitRepo portsrepo.VisitReader, borrowRepo portsrepo.BorrowReader, siteTZ *time.Location) portssvc.ReconciliationSvcFacade {
	if siteTZ == nil {
		siteTZ = time.UTC
	}
	return &reconciliationService{
		visitRepo:  visitRepo,
		borrowRepo: borrowRepo,
		siteTZ:     siteTZ,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// VisitSummary returns the visit with its borrowed/returned counts and open
// records, computed from ledger state at call time.
func (s *reconciliationService) VisitSummary(ctx context.Context, visitID string) (*domain.VisitSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch visit for summary", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		}
		return nil, err
	}

	records, err := s.borrowRepo.FindBorrowRecordsByVisitID(ctx, visitID)
	if err != nil {
		logger.Error("Failed to fetch borrow records for summary", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		return nil, fmt.Errorf("failed to fetch borrow records: %w", err)
	}

	summary := &domain.VisitSummary{Visit: *visit, BorrowedCount: len(records)}
	for _, rec := range records {
		if rec.Status() == domain.Returned {
			summary.ReturnedCount++
		} else {
			summary.OpenRecords = append(summary.OpenRecords, rec)
		}
	}
	return summary, nil
}

// DailyTimeline merges a worker's visit and custody events for one site-local
// day, sorted ascending. The result never comes back empty: when nothing
// happened a single NO_ACTIVITY placeholder is produced, so the view model
// always has at least one entry.
func (s *reconciliationService) DailyTimeline(ctx context.Context, workerID string, day time.Time) ([]domain.ActivityEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from, to := dayBounds(day, s.siteTZ)

	visits, err := s.visitRepo.FindVisitsByWorkerBetween(ctx, workerID, from, to)
	if err != nil {
		logger.Error("Failed to fetch visits for timeline", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to fetch visits: %w", err)
	}

	records, err := s.borrowRepo.FindBorrowRecordsByWorkerBetween(ctx, workerID, from, to)
	if err != nil {
		logger.Error("Failed to fetch borrow records for timeline", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to fetch borrow records: %w", err)
	}

	inDay := func(t time.Time) bool {
		return !t.Before(from) && t.Before(to)
	}

	var entries []domain.ActivityEntry
	for _, v := range visits {
		if inDay(v.CheckInTime) {
			entries = append(entries, domain.ActivityEntry{
				Kind:       domain.ActivityCheckIn,
				OccurredAt: v.CheckInTime,
				VisitID:    v.VisitID,
				Detail:     fmt.Sprintf("checked in at site %s", v.SiteID),
			})
		}
		if v.CheckOutTime != nil && inDay(*v.CheckOutTime) {
			entries = append(entries, domain.ActivityEntry{
				Kind:       domain.ActivityCheckOut,
				OccurredAt: *v.CheckOutTime,
				VisitID:    v.VisitID,
				Detail:     fmt.Sprintf("checked out of site %s", v.SiteID),
			})
		}
	}
	for _, rec := range records {
		if inDay(rec.BorrowedAt) {
			entries = append(entries, domain.ActivityEntry{
				Kind:       domain.ActivityBorrow,
				OccurredAt: rec.BorrowedAt,
				VisitID:    rec.VisitID,
				RecordID:   rec.RecordID,
				ItemCode:   rec.ItemCode,
			})
		}
		if rec.ReturnedAt != nil && inDay(*rec.ReturnedAt) {
			entries = append(entries, domain.ActivityEntry{
				Kind:       domain.ActivityReturn,
				OccurredAt: *rec.ReturnedAt,
				VisitID:    rec.VisitID,
				RecordID:   rec.RecordID,
				ItemCode:   rec.ItemCode,
			})
		}
	}

	if len(entries) == 0 {
		return []domain.ActivityEntry{{
			Kind:       domain.ActivityNone,
			OccurredAt: from,
			Detail:     "no activity recorded for this day",
		}}, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OccurredAt.Before(entries[j].OccurredAt)
	})
	return entries, nil
}

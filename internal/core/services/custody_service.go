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
	// ErrNotOnSite means the visit the borrow targets is not ON_SITE.
	ErrNotOnSite = errors.New("worker is not on site")
	// ErrUnknownCategory means the category ID does not resolve.
	ErrUnknownCategory = errors.New("unknown item category")
)

// custodyService owns borrow/return records. Every record is bound to exactly
// one visit at creation time; the binding is explicit (the caller supplies the
// visit ID resolved via the directory lookup) and never re-derived later.
type custodyService struct {
	borrowRepo   portsrepo.BorrowRepositoryFacade
	visitRepo    portsrepo.VisitReader
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCustodyService creates a new CustodyService.
func NewCustodyService(borrowRepo portsrepo.BorrowRepositoryFacade, visitRepo portsrepo.VisitReader, categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CustodySvcFacade {
	return &custodyService{
		borrowRepo:   borrowRepo,
		visitRepo:    visitRepo,
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.CustodySvcFacade = (*custodyService)(nil)

// validateBorrowTarget checks the visit is open and the category exists, and
// returns the visit. Shared by the single and batch paths.
func (s *custodyService) validateBorrowTarget(ctx context.Context, visitID, categoryID string) (*domain.Visit, error) {
	visit, err := s.visitRepo.FindVisitByID(ctx, visitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: visit %s not found", ErrNotOnSite, visitID)
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	if !visit.Open() {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrNotOnSite, visitID, visit.Status)
	}

	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return visit, nil
}

// newRecord builds a borrow record bound to the visit.
func newRecord(visit *domain.Visit, categoryID, itemCode, notes, registrarID string, now time.Time) domain.BorrowRecord {
	return domain.BorrowRecord{
		RecordID:   uuid.NewString(),
		VisitID:    visit.VisitID,
		WorkerID:   visit.WorkerID,
		CategoryID: categoryID,
		ItemCode:   itemCode,
		BorrowedAt: now,
		Notes:      notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     registrarID,
			LastUpdatedAt: now,
			LastUpdatedBy: registrarID,
		},
	}
}

// Borrow creates one borrow record bound to the given open visit.
func (s *custodyService) Borrow(ctx context.Context, req dto.BorrowRequest, registrarID string) (*domain.BorrowRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	visit, err := s.validateBorrowTarget(ctx, req.VisitID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	record := newRecord(visit, req.CategoryID, req.ItemCode, req.Notes, registrarID, time.Now().UTC())
	if err := s.borrowRepo.SaveBorrowRecord(ctx, record); err != nil {
		// A check-out can close the visit between the pre-check above and
		// the insert; the repository's visit-row lock reports that as a
		// conflict and the record is never written.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: visit %s was closed", ErrNotOnSite, req.VisitID)
		}
		logger.Error("Failed to save borrow record", slog.String("error", err.Error()), slog.String("visit_id", req.VisitID))
		return nil, fmt.Errorf("failed to save borrow record: %w", err)
	}

	logger.Info("Item borrowed",
		slog.String("record_id", record.RecordID),
		slog.String("visit_id", record.VisitID),
		slog.String("item_code", record.ItemCode))
	return &record, nil
}

// BorrowBatch commits a staged batch of entries against one visit. Each
// item's outcome is reported individually; one invalid category does not
// abort the siblings.
func (s *custodyService) BorrowBatch(ctx context.Context, req dto.BorrowBatchRequest, registrarID string) (*dto.BorrowBatchResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The visit check applies to the batch as a whole: with no open visit
	// there is nothing any entry could bind to.
	visit, err := s.visitRepo.FindVisitByID(ctx, req.VisitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: visit %s not found", ErrNotOnSite, req.VisitID)
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	if !visit.Open() {
		return nil, fmt.Errorf("%w: visit %s is %s", ErrNotOnSite, req.VisitID, visit.Status)
	}

	now := time.Now().UTC()
	resp := &dto.BorrowBatchResponse{Results: make([]dto.BorrowBatchItemResult, len(req.Items))}
	valid := make([]domain.BorrowRecord, 0, len(req.Items))
	validIdx := make([]int, 0, len(req.Items))

	for i, item := range req.Items {
		resp.Results[i] = dto.BorrowBatchItemResult{ItemCode: item.ItemCode}
		if _, err := s.categoryRepo.FindCategoryByID(ctx, item.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				resp.Results[i].Error = fmt.Sprintf("%v: %s", ErrUnknownCategory, item.CategoryID)
				resp.FailureCount++
				continue
			}
			return nil, fmt.Errorf("failed to fetch category: %w", err)
		}
		record := newRecord(visit, item.CategoryID, item.ItemCode, item.Notes, registrarID, now)
		valid = append(valid, record)
		validIdx = append(validIdx, i)
	}

	if len(valid) > 0 {
		if err := s.borrowRepo.SaveBorrowRecords(ctx, valid); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return nil, fmt.Errorf("%w: visit %s was closed", ErrNotOnSite, req.VisitID)
			}
			logger.Error("Failed to save borrow batch", slog.String("error", err.Error()), slog.String("visit_id", req.VisitID))
			return nil, fmt.Errorf("failed to save borrow batch: %w", err)
		}
		for j, i := range validIdx {
			rec := dto.ToBorrowRecordResponse(&valid[j])
			resp.Results[i].Record = &rec
			resp.SuccessCount++
		}
	}

	logger.Info("Borrow batch committed",
		slog.String("visit_id", req.VisitID),
		slog.Int("succeeded", resp.SuccessCount),
		slog.Int("failed", resp.FailureCount))
	return resp, nil
}

// Return marks a record returned. Already-returned records are a no-op
// success so a double submit never surfaces as a failure to the operator, and
// the original return date stays untouched.
func (s *custodyService) Return(ctx context.Context, recordID string, registrarID string) (*domain.BorrowRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.borrowRepo.FindBorrowRecordByID(ctx, recordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch borrow record", slog.String("error", err.Error()), slog.String("record_id", recordID))
		}
		return nil, err
	}
	if record.ReturnedAt != nil {
		return record, nil
	}

	record, err = s.borrowRepo.MarkReturned(ctx, recordID, time.Now().UTC(), registrarID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to mark record returned", slog.String("error", err.Error()), slog.String("record_id", recordID))
		}
		return nil, err
	}

	logger.Info("Item returned", slog.String("record_id", recordID), slog.String("item_code", record.ItemCode))
	return record, nil
}

// ReturnMany marks multiple records returned, reporting per-record outcomes.
func (s *custodyService) ReturnMany(ctx context.Context, recordIDs []string, registrarID string) (*dto.ReturnManyResponse, error) {
	resp := &dto.ReturnManyResponse{Results: make([]dto.ReturnManyItemResult, len(recordIDs))}
	for i, recordID := range recordIDs {
		resp.Results[i] = dto.ReturnManyItemResult{RecordID: recordID}
		record, err := s.Return(ctx, recordID, registrarID)
		if err != nil {
			resp.Results[i].Error = err.Error()
			continue
		}
		rec := dto.ToBorrowRecordResponse(record)
		resp.Results[i].Record = &rec
	}
	return resp, nil
}

// GetBorrowRecord retrieves a borrow record by ID.
func (s *custodyService) GetBorrowRecord(ctx context.Context, recordID string) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.FindBorrowRecordByID(ctx, recordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch borrow record", slog.String("error", err.Error()), slog.String("record_id", recordID))
		}
		return nil, err
	}
	return record, nil
}

// OpenItemsForVisit retrieves the visit's unreturned records. Used by both
// the borrow screen (currently held) and the exit gate.
func (s *custodyService) OpenItemsForVisit(ctx context.Context, visitID string) ([]domain.BorrowRecord, error) {
	records, err := s.borrowRepo.FindOpenBorrowRecordsByVisitID(ctx, visitID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch open items", slog.String("error", err.Error()), slog.String("visit_id", visitID))
		return nil, fmt.Errorf("failed to fetch open items: %w", err)
	}
	return records, nil
}

// ListBorrowRecords retrieves records filtered by visit or worker.
func (s *custodyService) ListBorrowRecords(ctx context.Context, params dto.ListBorrowRecordsParams) (*dto.ListBorrowRecordsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch {
	case params.VisitID != nil && params.WorkerID != nil:
		return nil, fmt.Errorf("%w: supply either visitID or workerID, not both", apperrors.ErrValidation)
	case params.VisitID != nil:
		records, err := s.borrowRepo.FindBorrowRecordsByVisitID(ctx, *params.VisitID)
		if err != nil {
			logger.Error("Failed to list borrow records by visit", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to list borrow records: %w", err)
		}
		return &dto.ListBorrowRecordsResponse{Records: dto.ToBorrowRecordResponses(records)}, nil
	case params.WorkerID != nil:
		limit := params.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		records, nextToken, err := s.borrowRepo.ListBorrowRecordsByWorker(ctx, *params.WorkerID, limit, params.NextToken)
		if err != nil {
			logger.Error("Failed to list borrow records by worker", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to list borrow records: %w", err)
		}
		return &dto.ListBorrowRecordsResponse{Records: dto.ToBorrowRecordResponses(records), NextToken: nextToken}, nil
	default:
		return nil, fmt.Errorf("%w: visitID or workerID is required", apperrors.ErrValidation)
	}
}

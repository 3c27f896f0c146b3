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

// workerService manages the worker directory.
type workerService struct {
	workerRepo portsrepo.WorkerRepositoryFacade
}

// NewWorkerService creates a new WorkerSvcFacade implementation.
func NewWorkerService(workerRepo portsrepo.WorkerRepositoryFacade) portssvc.WorkerSvcFacade {
	return &workerService{workerRepo: workerRepo}
}

var _ portssvc.WorkerSvcFacade = (*workerService)(nil)

// CreateWorker registers a new worker in the directory.
func (s *workerService) CreateWorker(ctx context.Context, req dto.CreateWorkerRequest, creatorUserID string) (*domain.Worker, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	worker := domain.Worker{
		WorkerID:    uuid.NewString(),
		WorkerCode:  req.WorkerCode,
		Name:        req.Name,
		Phone:       req.Phone,
		IDDocType:   domain.IDDocType(req.IDDocType),
		IDDocNumber: req.IDDocNumber,
		CardID:      req.CardID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: worker code or card already registered", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save worker", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	logger.Info("Worker created", slog.String("worker_id", worker.WorkerID), slog.String("worker_code", worker.WorkerCode))
	return &worker, nil
}

// UpdateWorker applies partial updates to a worker's contact and card details.
func (s *workerService) UpdateWorker(ctx context.Context, workerID string, req dto.UpdateWorkerRequest, requestingUserID string) (*domain.Worker, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.IDDocType != nil {
		worker.IDDocType = domain.IDDocType(*req.IDDocType)
	}
	if req.IDDocNumber != nil {
		worker.IDDocNumber = *req.IDDocNumber
	}
	if req.CardID != nil {
		worker.CardID = *req.CardID
	}
	worker.LastUpdatedAt = time.Now().UTC()
	worker.LastUpdatedBy = requestingUserID

	if err := s.workerRepo.UpdateWorker(ctx, *worker); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: card already assigned to another worker", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to update worker", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	return worker, nil
}

// GetWorkerByID retrieves a worker by ID.
func (s *workerService) GetWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to get worker", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		}
		return nil, err
	}
	return worker, nil
}

// ListWorkers retrieves a page of workers using token-based pagination.
func (s *workerService) ListWorkers(ctx context.Context, params dto.ListWorkersParams) (*dto.ListWorkersResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	workers, nextToken, err := s.workerRepo.ListWorkers(ctx, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list workers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	resp := dto.ToListWorkersResponse(workers, nextToken)
	return &resp, nil
}

// categoryService serves item category reference data.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new CategorySvcFacade implementation.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// ListCategories retrieves all item categories.
func (s *categoryService) ListCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

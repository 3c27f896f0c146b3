package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

// WorkerReaderSvc defines read operations for worker directory data
type WorkerReaderSvc interface {
	// GetWorkerByID retrieves a worker by ID.
	GetWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated list of workers.
	ListWorkers(ctx context.Context, params dto.ListWorkersParams) (*dto.ListWorkersResponse, error)
}

// WorkerWriterSvc defines write operations for worker directory data
type WorkerWriterSvc interface {
	// CreateWorker registers a new worker. Fails with apperrors.ErrDuplicate
	// when the worker code or card ID is already taken.
	CreateWorker(ctx context.Context, req dto.CreateWorkerRequest, creatorUserID string) (*domain.Worker, error)

	// UpdateWorker updates an existing worker's contact and card details.
	UpdateWorker(ctx context.Context, workerID string, req dto.UpdateWorkerRequest, requestingUserID string) (*domain.Worker, error)
}

// WorkerSvcFacade combines all worker directory service interfaces
type WorkerSvcFacade interface {
	WorkerReaderSvc
	WorkerWriterSvc
}

// CategorySvcFacade exposes the item category reference data.
type CategorySvcFacade interface {
	// ListCategories retrieves all item categories.
	ListCategories(ctx context.Context) ([]domain.ItemCategory, error)
}

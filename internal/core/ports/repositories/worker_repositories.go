package repositories

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// WorkerReader defines read operations for worker directory data
type WorkerReader interface {
	// FindWorkerByID retrieves a specific worker by its unique identifier.
	FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error)

	// FindWorkerByCode retrieves a worker by its human-facing worker code.
	FindWorkerByCode(ctx context.Context, workerCode string) (*domain.Worker, error)

	// FindWorkerByCardID retrieves a worker by its assigned physical card identifier.
	FindWorkerByCardID(ctx context.Context, cardID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated list of workers using token-based pagination.
	// It returns the workers, a token for the next page, and an error.
	ListWorkers(ctx context.Context, limit int, nextToken *string) ([]domain.Worker, *string, error)
}

// WorkerWriter defines write operations for worker directory data
type WorkerWriter interface {
	// SaveWorker persists a new worker.
	SaveWorker(ctx context.Context, worker domain.Worker) error

	// UpdateWorker updates an existing worker's details.
	UpdateWorker(ctx context.Context, worker domain.Worker) error
}

// WorkerRepositoryFacade combines all worker-related repository interfaces
type WorkerRepositoryFacade interface {
	WorkerReader
	WorkerWriter
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/middleware"
)

// ErrNoOpenVisit indicates the worker exists but has no ON_SITE visit.
var ErrNoOpenVisit = errors.New("worker has no open visit")

// directoryService resolves scanned identifiers to worker profiles and open
// visits. One resolver handles both worker codes and card codes so the two
// entry paths cannot drift apart in validation.
type directoryService struct {
	workerRepo portsrepo.WorkerReader
	visitRepo  portsrepo.VisitReader
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(workerRepo portsrepo.WorkerReader, visitRepo portsrepo.VisitReader) portssvc.DirectorySvcFacade {
	return &directoryService{
		workerRepo: workerRepo,
		visitRepo:  visitRepo,
	}
}

var _ portssvc.DirectorySvcFacade = (*directoryService)(nil)

// ResolveWorker tries the identifier as a worker code first, then as a
// physical-card code.
func (s *directoryService) ResolveWorker(ctx context.Context, identifier string) (*domain.Worker, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", apperrors.ErrValidation)
	}

	worker, err := s.workerRepo.FindWorkerByCode(ctx, identifier)
	if err == nil {
		return worker, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up worker by code", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve worker: %w", err)
	}

	worker, err = s.workerRepo.FindWorkerByCardID(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Identifier matched neither worker code nor card", slog.String("identifier", identifier))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to look up worker by card", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve worker: %w", err)
	}
	return worker, nil
}

// FindOpenVisit resolves the identifier and returns the worker with their
// current ON_SITE visit. Both the borrow and exit flows go through here so the
// "who is this" and "are they on site" checks are not duplicated.
func (s *directoryService) FindOpenVisit(ctx context.Context, identifier string) (*domain.Worker, *domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	worker, err := s.ResolveWorker(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	visit, err := s.visitRepo.FindOpenVisitByWorker(ctx, worker.WorkerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: worker %s", ErrNoOpenVisit, worker.WorkerCode)
		}
		logger.Error("Failed to look up open visit", slog.String("error", err.Error()), slog.String("worker_id", worker.WorkerID))
		return nil, nil, fmt.Errorf("failed to find open visit: %w", err)
	}
	return worker, visit, nil
}

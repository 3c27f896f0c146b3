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

// ErrJobFinished means a cancel request arrived after the job reached a
// terminal state.
var ErrJobFinished = errors.New("dispatch job already finished")

// Notifier delivers one notification to one worker. The real gateway lives
// behind this boundary; delivery failures fail the whole job.
type Notifier interface {
	Notify(ctx context.Context, workerID string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, workerID string) error

func (f NotifierFunc) Notify(ctx context.Context, workerID string) error {
	return f(ctx, workerID)
}

// NewLogNotifier returns a Notifier that only records the delivery. Used when
// no gateway is configured (development, tests).
func NewLogNotifier(logger *slog.Logger) Notifier {
	return NotifierFunc(func(ctx context.Context, workerID string) error {
		logger.Info("Notification dispatched", slog.String("worker_id", workerID))
		return nil
	})
}

// dispatchService manages bulk notification jobs. Jobs are rows in the
// dispatch tables; a single background runner claims PENDING jobs and works
// through their targets in batches, checking the cancel flag between batches.
// Cancellation is therefore cooperative and never instantaneous: callers keep
// polling until the processor reports a terminal status.
type dispatchService struct {
	dispatchRepo portsrepo.DispatchRepositoryFacade
	workerRepo   portsrepo.WorkerReader
	notifier     Notifier
	pollInterval time.Duration
	batchSize    int
	logger       *slog.Logger
}

// DispatchOption configures the dispatch service.
type DispatchOption func(*dispatchService)

// WithPollInterval overrides how often the runner looks for pending jobs.
func WithPollInterval(d time.Duration) DispatchOption {
	return func(s *dispatchService) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithBatchSize overrides how many targets are processed between cancel checks.
func WithBatchSize(n int) DispatchOption {
	return func(s *dispatchService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewDispatchService creates a new DispatchService. The returned value also
// implements portssvc.DispatchRunner; start the runner once from main.
func NewDispatchService(dispatchRepo portsrepo.DispatchRepositoryFacade, workerRepo portsrepo.WorkerReader, notifier Notifier, logger *slog.Logger, opts ...DispatchOption) *DispatchService {
	s := &dispatchService{
		dispatchRepo: dispatchRepo,
		workerRepo:   workerRepo,
		notifier:     notifier,
		pollInterval: 2 * time.Second,
		batchSize:    25,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &DispatchService{s}
}

// DispatchService is the exported handle combining the facade and the runner.
type DispatchService struct {
	*dispatchService
}

var (
	_ portssvc.DispatchSvcFacade = (*DispatchService)(nil)
	_ portssvc.DispatchRunner    = (*DispatchService)(nil)
)

// CreateDispatch enqueues a bulk notification job.
func (s *dispatchService) CreateDispatch(ctx context.Context, req dto.CreateDispatchRequest, creatorUserID string) (*domain.DispatchJob, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Validate that every target exists before the job is accepted, so the
	// processor never fails on a typo the operator could have fixed.
	for _, workerID := range req.WorkerIDs {
		if _, err := s.workerRepo.FindWorkerByID(ctx, workerID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: worker %s not found", apperrors.ErrValidation, workerID)
			}
			return nil, fmt.Errorf("failed to validate dispatch targets: %w", err)
		}
	}

	now := time.Now().UTC()
	job := domain.DispatchJob{
		JobID:      uuid.NewString(),
		Kind:       req.Kind,
		Status:     domain.DispatchPending,
		TotalCount: len(req.WorkerIDs),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.dispatchRepo.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to save dispatch job", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save dispatch job: %w", err)
	}
	if err := s.dispatchRepo.SaveJobTargets(ctx, job.JobID, req.WorkerIDs); err != nil {
		logger.Error("Failed to save dispatch targets", slog.String("error", err.Error()), slog.String("job_id", job.JobID))
		return nil, fmt.Errorf("failed to save dispatch targets: %w", err)
	}

	logger.Info("Dispatch job enqueued", slog.String("job_id", job.JobID), slog.Int("targets", job.TotalCount))
	return &job, nil
}

// GetDispatch retrieves a job's current state for polling.
func (s *dispatchService) GetDispatch(ctx context.Context, jobID string) (*domain.DispatchJob, error) {
	job, err := s.dispatchRepo.FindJobByID(ctx, jobID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch dispatch job", slog.String("error", err.Error()), slog.String("job_id", jobID))
		}
		return nil, err
	}
	return job, nil
}

// CancelDispatch requests cooperative cancellation. The job stays
// non-terminal until the runner observes the flag between batches.
func (s *dispatchService) CancelDispatch(ctx context.Context, jobID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.dispatchRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return fmt.Errorf("%w: status is %s", ErrJobFinished, job.Status)
	}

	if err := s.dispatchRepo.RequestCancel(ctx, jobID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The job reached a terminal state between our read and the write.
			return fmt.Errorf("%w: job finished before cancel was recorded", ErrJobFinished)
		}
		logger.Error("Failed to request dispatch cancel", slog.String("error", err.Error()), slog.String("job_id", jobID))
		return fmt.Errorf("failed to request cancel: %w", err)
	}

	logger.Info("Dispatch cancellation requested", slog.String("job_id", jobID))
	return nil
}

// Run is the background processing loop. It polls for pending jobs at the
// configured interval and blocks until ctx is cancelled.
func (s *dispatchService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("Dispatch runner started", slog.Duration("poll_interval", s.pollInterval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Dispatch runner stopping")
			return
		case <-ticker.C:
			s.processNext(ctx)
		}
	}
}

// processNext claims and fully processes at most one pending job.
func (s *dispatchService) processNext(ctx context.Context) {
	job, err := s.dispatchRepo.ClaimNextPendingJob(ctx, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("Failed to claim dispatch job", slog.String("error", err.Error()))
		}
		return
	}

	logger := s.logger.With(slog.String("job_id", job.JobID))
	logger.Info("Processing dispatch job", slog.Int("targets", job.TotalCount))

	targets, err := s.dispatchRepo.FindJobTargets(ctx, job.JobID)
	if err != nil {
		logger.Error("Failed to load dispatch targets", slog.String("error", err.Error()))
		s.finish(ctx, job.JobID, domain.DispatchFailed, "failed to load targets", logger)
		return
	}

	processed := 0
	for start := 0; start < len(targets); start += s.batchSize {
		// Re-read between batches: this is the cooperative cancellation
		// point, and the only place a cancel request takes effect.
		current, err := s.dispatchRepo.FindJobByID(ctx, job.JobID)
		if err != nil {
			logger.Error("Failed to re-read dispatch job", slog.String("error", err.Error()))
			s.finish(ctx, job.JobID, domain.DispatchFailed, "lost track of job state", logger)
			return
		}
		if current.CancelRequested {
			logger.Info("Cancel flag observed, stopping job", slog.Int("processed", processed))
			s.finish(ctx, job.JobID, domain.DispatchCancelled, "", logger)
			return
		}

		end := start + s.batchSize
		if end > len(targets) {
			end = len(targets)
		}
		for _, workerID := range targets[start:end] {
			if err := s.notifier.Notify(ctx, workerID); err != nil {
				logger.Error("Notification delivery failed", slog.String("error", err.Error()), slog.String("worker_id", workerID))
				s.finish(ctx, job.JobID, domain.DispatchFailed, fmt.Sprintf("delivery failed for worker %s", workerID), logger)
				return
			}
			processed++
		}
		if err := s.dispatchRepo.UpdateJobProgress(ctx, job.JobID, processed, time.Now().UTC()); err != nil {
			logger.Error("Failed to record dispatch progress", slog.String("error", err.Error()))
		}
	}

	s.finish(ctx, job.JobID, domain.DispatchCompleted, "", logger)
	logger.Info("Dispatch job completed", slog.Int("processed", processed))
}

func (s *dispatchService) finish(ctx context.Context, jobID string, status domain.DispatchStatus, reason string, logger *slog.Logger) {
	if err := s.dispatchRepo.FinishJob(ctx, jobID, status, reason, time.Now().UTC()); err != nil {
		logger.Error("Failed to finish dispatch job", slog.String("error", err.Error()), slog.String("target_status", string(status)))
	}
}

package repositories

import (
	"context"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// DispatchRepositoryFacade defines persistence operations for bulk
// notification dispatch jobs.
type DispatchRepositoryFacade interface {
	// SaveJob persists a new dispatch job in PENDING state.
	SaveJob(ctx context.Context, job domain.DispatchJob) error

	// SaveJobTargets persists the worker list for a job.
	SaveJobTargets(ctx context.Context, jobID string, workerIDs []string) error

	// FindJobTargets returns the worker list for a job in insertion order.
	FindJobTargets(ctx context.Context, jobID string) ([]string, error)

	// FindJobByID retrieves a dispatch job.
	FindJobByID(ctx context.Context, jobID string) (*domain.DispatchJob, error)

	// ClaimNextPendingJob atomically moves the oldest PENDING job to PROCESSING
	// and returns it. Returns apperrors.ErrNotFound when no job is waiting.
	ClaimNextPendingJob(ctx context.Context, now time.Time) (*domain.DispatchJob, error)

	// UpdateJobProgress records the processed count for a running job.
	UpdateJobProgress(ctx context.Context, jobID string, processedCount int, now time.Time) error

	// FinishJob moves a job to a terminal status (COMPLETED, FAILED or CANCELLED).
	FinishJob(ctx context.Context, jobID string, status domain.DispatchStatus, failureReason string, now time.Time) error

	// RequestCancel sets the cancel flag on a non-terminal job. The processor
	// observes the flag between batches; the status change is not immediate.
	RequestCancel(ctx context.Context, jobID string, userID string, now time.Time) error
}

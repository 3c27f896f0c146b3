package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

// DispatchSvcFacade manages bulk notification dispatch jobs. Jobs run in the
// background; callers poll GetDispatch until they observe a terminal status.
type DispatchSvcFacade interface {
	// CreateDispatch enqueues a new bulk notification job in PENDING state.
	CreateDispatch(ctx context.Context, req dto.CreateDispatchRequest, creatorUserID string) (*domain.DispatchJob, error)

	// GetDispatch retrieves a job's current state for polling.
	GetDispatch(ctx context.Context, jobID string) (*domain.DispatchJob, error)

	// CancelDispatch requests cancellation of a running job. Fire-and-forget:
	// the job stays non-terminal until the processor observes the flag, so the
	// caller must keep polling.
	CancelDispatch(ctx context.Context, jobID string, userID string) error
}

// DispatchRunner is the background side of the dispatch service: a loop that
// claims pending jobs and processes them until the context is cancelled.
type DispatchRunner interface {
	// Run blocks, processing jobs, until ctx is done.
	Run(ctx context.Context)
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
)

type PgxDispatchRepository struct {
	BaseRepository
}

// newPgxDispatchRepository creates a new repository for dispatch jobs.
func newPgxDispatchRepository(pool *pgxpool.Pool) portsrepo.DispatchRepositoryFacade {
	return &PgxDispatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DispatchRepositoryFacade = (*PgxDispatchRepository)(nil)

const dispatchSelectColumns = `
	j.job_id, j.kind, j.status, j.total_count, j.processed_count, j.cancel_requested,
	j.failure_reason, j.started_at, j.finished_at,
	j.created_at, j.created_by, j.last_updated_at, j.last_updated_by
`

func scanDispatchJob(row pgx.Row) (*domain.DispatchJob, error) {
	var j domain.DispatchJob
	err := row.Scan(
		&j.JobID,
		&j.Kind,
		&j.Status,
		&j.TotalCount,
		&j.ProcessedCount,
		&j.CancelRequested,
		&j.FailureReason,
		&j.StartedAt,
		&j.FinishedAt,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.LastUpdatedAt,
		&j.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PgxDispatchRepository) SaveJob(ctx context.Context, job domain.DispatchJob) error {
	query := `
		INSERT INTO dispatch_jobs (
			job_id, kind, status, total_count, processed_count, cancel_requested,
			failure_reason, started_at, finished_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		job.JobID,
		job.Kind,
		job.Status,
		job.TotalCount,
		job.ProcessedCount,
		job.CancelRequested,
		job.FailureReason,
		job.StartedAt,
		job.FinishedAt,
		job.CreatedAt,
		job.CreatedBy,
		job.LastUpdatedAt,
		job.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: dispatch job %s", apperrors.ErrDuplicate, job.JobID)
		}
		return apperrors.NewAppError(500, "failed to save dispatch job "+job.JobID, err)
	}
	return nil
}

func (r *PgxDispatchRepository) SaveJobTargets(ctx context.Context, jobID string, workerIDs []string) error {
	if len(workerIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for pos, workerID := range workerIDs {
		batch.Queue(
			`INSERT INTO dispatch_job_targets (job_id, worker_id, position) VALUES ($1, $2, $3);`,
			jobID, workerID, pos,
		)
	}
	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range workerIDs {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to save dispatch targets for job "+jobID, err)
		}
	}
	return nil
}

func (r *PgxDispatchRepository) FindJobTargets(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT worker_id FROM dispatch_job_targets WHERE job_id = $1 ORDER BY position ASC;`, jobID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query dispatch targets for job "+jobID, err)
	}
	defer rows.Close()

	workerIDs := []string{}
	for rows.Next() {
		var workerID string
		if err := rows.Scan(&workerID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan dispatch target row", err)
		}
		workerIDs = append(workerIDs, workerID)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating dispatch target rows", rows.Err())
	}
	return workerIDs, nil
}

func (r *PgxDispatchRepository) FindJobByID(ctx context.Context, jobID string) (*domain.DispatchJob, error) {
	query := `SELECT ` + dispatchSelectColumns + ` FROM dispatch_jobs j WHERE j.job_id = $1`
	job, err := scanDispatchJob(r.Pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query dispatch job", err)
	}
	return job, nil
}

// ClaimNextPendingJob moves the oldest PENDING job to PROCESSING. The
// FOR UPDATE SKIP LOCKED select keeps concurrent runners off the same job.
func (r *PgxDispatchRepository) ClaimNextPendingJob(ctx context.Context, now time.Time) (*domain.DispatchJob, error) {
	query := `
		UPDATE dispatch_jobs
		SET status = $1, started_at = $2, last_updated_at = $2
		WHERE job_id = (
			SELECT job_id FROM dispatch_jobs
			WHERE status = $3
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING job_id, kind, status, total_count, processed_count, cancel_requested,
			failure_reason, started_at, finished_at,
			created_at, created_by, last_updated_at, last_updated_by;
	`
	job, err := scanDispatchJob(r.Pool.QueryRow(ctx, query, domain.DispatchProcessing, now, domain.DispatchPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to claim dispatch job", err)
	}
	return job, nil
}

func (r *PgxDispatchRepository) UpdateJobProgress(ctx context.Context, jobID string, processedCount int, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE dispatch_jobs
		SET processed_count = $1, last_updated_at = $2
		WHERE job_id = $3;
	`, processedCount, now, jobID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update dispatch job progress "+jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDispatchRepository) FinishJob(ctx context.Context, jobID string, status domain.DispatchStatus, failureReason string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE dispatch_jobs
		SET status = $1, failure_reason = $2, finished_at = $3, last_updated_at = $3
		WHERE job_id = $4;
	`, status, failureReason, now, jobID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to finish dispatch job "+jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDispatchRepository) RequestCancel(ctx context.Context, jobID string, userID string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE dispatch_jobs
		SET cancel_requested = TRUE, last_updated_at = $1, last_updated_by = $2
		WHERE job_id = $3 AND status IN ($4, $5);
	`, now, userID, jobID, domain.DispatchPending, domain.DispatchProcessing)
	if err != nil {
		return apperrors.NewAppError(500, "failed to request cancel for dispatch job "+jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The job finished between the caller's read and this write.
		return apperrors.ErrConflict
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	"github.com/gatecrew/site_custody_app/internal/utils/pagination"
)

type PgxWorkerRepository struct {
	BaseRepository
}

// newPgxWorkerRepository creates a new repository for worker directory data.
func newPgxWorkerRepository(pool *pgxpool.Pool) portsrepo.WorkerRepositoryFacade {
	return &PgxWorkerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.WorkerRepositoryFacade = (*PgxWorkerRepository)(nil)

const workerSelectColumns = `
	w.worker_id, w.worker_code, w.name, w.phone, w.id_doc_type, w.id_doc_number, w.card_id,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
`

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var w domain.Worker
	err := row.Scan(
		&w.WorkerID,
		&w.WorkerCode,
		&w.Name,
		&w.Phone,
		&w.IDDocType,
		&w.IDDocNumber,
		&w.CardID,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PgxWorkerRepository) findWorkerWhere(ctx context.Context, where string, args ...any) (*domain.Worker, error) {
	query := `SELECT ` + workerSelectColumns + ` FROM workers w ` + where
	worker, err := scanWorker(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query worker", err)
	}
	return worker, nil
}

func (r *PgxWorkerRepository) FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	return r.findWorkerWhere(ctx, `WHERE w.worker_id = $1`, workerID)
}

func (r *PgxWorkerRepository) FindWorkerByCode(ctx context.Context, workerCode string) (*domain.Worker, error) {
	return r.findWorkerWhere(ctx, `WHERE w.worker_code = $1`, workerCode)
}

func (r *PgxWorkerRepository) FindWorkerByCardID(ctx context.Context, cardID string) (*domain.Worker, error) {
	return r.findWorkerWhere(ctx, `WHERE w.card_id = $1 AND w.card_id <> ''`, cardID)
}

func (r *PgxWorkerRepository) ListWorkers(ctx context.Context, limit int, nextToken *string) ([]domain.Worker, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + workerSelectColumns + ` FROM workers w`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		createdAt, workerID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (w.created_at, w.worker_id) < ($1, $2)`
		args = append(args, createdAt, workerID)
	}

	// Fetch one extra row to decide whether another page exists.
	query += fmt.Sprintf(` ORDER BY w.created_at DESC, w.worker_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query workers", err)
	}
	defer rows.Close()

	workers := []domain.Worker{}
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan worker row", err)
		}
		workers = append(workers, *w)
	}
	if rows.Err() != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating worker rows", rows.Err())
	}

	var token *string
	if len(workers) > limit {
		workers = workers[:limit]
		last := workers[len(workers)-1]
		t := pagination.EncodeKeysetToken(last.CreatedAt, last.WorkerID)
		token = &t
	}
	return workers, token, nil
}

func (r *PgxWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	query := `
		INSERT INTO workers (
			worker_id, worker_code, name, phone, id_doc_type, id_doc_number, card_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		worker.WorkerID,
		worker.WorkerCode,
		worker.Name,
		worker.Phone,
		worker.IDDocType,
		worker.IDDocNumber,
		worker.CardID,
		worker.CreatedAt,
		worker.CreatedBy,
		worker.LastUpdatedAt,
		worker.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: worker code or card", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save worker "+worker.WorkerID, err)
	}
	return nil
}

func (r *PgxWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	query := `
		UPDATE workers
		SET name = $1, phone = $2, id_doc_type = $3, id_doc_number = $4, card_id = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE worker_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		worker.Name,
		worker.Phone,
		worker.IDDocType,
		worker.IDDocNumber,
		worker.CardID,
		worker.LastUpdatedAt,
		worker.LastUpdatedBy,
		worker.WorkerID,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: worker code or card", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to update worker "+worker.WorkerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

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
	"github.com/gatecrew/site_custody_app/internal/utils/pagination"
)

type PgxBorrowRepository struct {
	BaseRepository
}

// newPgxBorrowRepository creates a new repository for custody ledger data.
func newPgxBorrowRepository(pool *pgxpool.Pool) portsrepo.BorrowRepositoryFacade {
	return &PgxBorrowRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BorrowRepositoryFacade = (*PgxBorrowRepository)(nil)

const borrowSelectColumns = `
	b.record_id, b.visit_id, b.worker_id, b.category_id, b.item_code,
	b.borrowed_at, b.returned_at, b.notes,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
`

const borrowInsertQuery = `
	INSERT INTO borrow_records (
		record_id, visit_id, worker_id, category_id, item_code,
		borrowed_at, returned_at, notes,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func scanBorrowRecord(row pgx.Row) (*domain.BorrowRecord, error) {
	var b domain.BorrowRecord
	err := row.Scan(
		&b.RecordID,
		&b.VisitID,
		&b.WorkerID,
		&b.CategoryID,
		&b.ItemCode,
		&b.BorrowedAt,
		&b.ReturnedAt,
		&b.Notes,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxBorrowRepository) getBorrowRecords(ctx context.Context, filterQuery string, args ...any) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + borrowSelectColumns + ` FROM borrow_records b ` + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query borrow records", err)
	}
	defer rows.Close()

	records := []domain.BorrowRecord{}
	for rows.Next() {
		b, err := scanBorrowRecord(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan borrow record row", err)
		}
		records = append(records, *b)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating borrow record rows", rows.Err())
	}
	return records, nil
}

func (r *PgxBorrowRepository) FindBorrowRecordByID(ctx context.Context, recordID string) (*domain.BorrowRecord, error) {
	query := `SELECT ` + borrowSelectColumns + ` FROM borrow_records b WHERE b.record_id = $1`
	record, err := scanBorrowRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query borrow record", err)
	}
	return record, nil
}

func (r *PgxBorrowRepository) FindBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error) {
	return r.getBorrowRecords(ctx, `WHERE b.visit_id = $1 ORDER BY b.borrowed_at ASC`, visitID)
}

func (r *PgxBorrowRepository) FindOpenBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error) {
	return r.getBorrowRecords(ctx, `WHERE b.visit_id = $1 AND b.returned_at IS NULL ORDER BY b.borrowed_at ASC`, visitID)
}

func (r *PgxBorrowRepository) ListBorrowRecordsByWorker(ctx context.Context, workerID string, limit int, nextToken *string) ([]domain.BorrowRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	filter := `WHERE b.worker_id = $1`
	args := []any{workerID}

	if nextToken != nil && *nextToken != "" {
		borrowedAt, recordID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, borrowedAt, recordID)
		filter += fmt.Sprintf(` AND (b.borrowed_at, b.record_id) < ($%d, $%d)`, len(args)-1, len(args))
	}

	filter += fmt.Sprintf(` ORDER BY b.borrowed_at DESC, b.record_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	records, err := r.getBorrowRecords(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		t := pagination.EncodeKeysetToken(last.BorrowedAt, last.RecordID)
		token = &t
	}
	return records, token, nil
}

func (r *PgxBorrowRepository) FindBorrowRecordsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.BorrowRecord, error) {
	return r.getBorrowRecords(ctx, `
		WHERE b.worker_id = $1
		  AND ((b.borrowed_at >= $2 AND b.borrowed_at < $3)
		    OR (b.returned_at >= $2 AND b.returned_at < $3))
		ORDER BY b.borrowed_at ASC`, workerID, from, to)
}

// lockOpenVisit takes a share lock on the visit row and verifies it is still
// ON_SITE. The lock serializes the insert against a concurrent CloseVisit:
// whichever transaction commits second observes the other's outcome, so a
// record can never end up bound to a visit that closed underneath it.
func lockOpenVisit(ctx context.Context, tx pgx.Tx, visitID string) error {
	var status domain.VisitStatus
	err := tx.QueryRow(ctx, `SELECT status FROM visits WHERE visit_id = $1 FOR SHARE`, visitID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock visit "+visitID, err)
	}
	if status != domain.VisitOnSite {
		return fmt.Errorf("%w: visit %s is %s", apperrors.ErrConflict, visitID, status)
	}
	return nil
}

// SaveBorrowRecord inserts a record while holding a share lock on its visit
// row. A visit no longer ON_SITE once the lock is granted yields
// apperrors.ErrConflict.
func (r *PgxBorrowRepository) SaveBorrowRecord(ctx context.Context, record domain.BorrowRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockOpenVisit(ctx, tx, record.VisitID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, borrowInsertQuery, borrowInsertArgs(record)...); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: borrow record %s", apperrors.ErrDuplicate, record.RecordID)
		}
		return apperrors.NewAppError(500, "failed to save borrow record "+record.RecordID, err)
	}
	return r.Commit(ctx, tx)
}

// SaveBorrowRecords inserts all records in one round trip using a batch,
// under the same visit-row lock as the single-record path.
func (r *PgxBorrowRepository) SaveBorrowRecords(ctx context.Context, records []domain.BorrowRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked := map[string]bool{}
	for _, record := range records {
		if locked[record.VisitID] {
			continue
		}
		if err := lockOpenVisit(ctx, tx, record.VisitID); err != nil {
			return err
		}
		locked[record.VisitID] = true
	}

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(borrowInsertQuery, borrowInsertArgs(record)...)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			if isUniqueViolation(err, "") {
				return fmt.Errorf("%w: borrow record %s", apperrors.ErrDuplicate, records[i].RecordID)
			}
			return apperrors.NewAppError(500, "failed to save borrow record "+records[i].RecordID, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to finish borrow batch", err)
	}
	return r.Commit(ctx, tx)
}

// MarkReturned closes an open record and reports its post-update state. An
// already-returned record is fetched and handed back untouched so repeated
// return calls converge on the same outcome.
func (r *PgxBorrowRepository) MarkReturned(ctx context.Context, recordID string, returnedAt time.Time, userID string) (*domain.BorrowRecord, error) {
	query := `
		UPDATE borrow_records
		SET returned_at = $1, last_updated_at = $2, last_updated_by = $3
		WHERE record_id = $4 AND returned_at IS NULL
		RETURNING record_id, visit_id, worker_id, category_id, item_code,
			borrowed_at, returned_at, notes,
			created_at, created_by, last_updated_at, last_updated_by;
	`
	record, err := scanBorrowRecord(r.Pool.QueryRow(ctx, query, returnedAt, returnedAt, userID, recordID))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(500, "failed to mark borrow record returned "+recordID, err)
	}

	// No open row matched: the record is either already returned or missing.
	return r.FindBorrowRecordByID(ctx, recordID)
}

func borrowInsertArgs(record domain.BorrowRecord) []any {
	return []any{
		record.RecordID,
		record.VisitID,
		record.WorkerID,
		record.CategoryID,
		record.ItemCode,
		record.BorrowedAt,
		record.ReturnedAt,
		record.Notes,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	}
}

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

type PgxVisitRepository struct {
	BaseRepository
}

// newPgxVisitRepository creates a new repository for visit ledger data.
func newPgxVisitRepository(pool *pgxpool.Pool) portsrepo.VisitRepositoryFacade {
	return &PgxVisitRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.VisitRepositoryFacade = (*PgxVisitRepository)(nil)

const visitSelectColumns = `
	v.visit_id, v.worker_id, v.site_id, v.check_in_time, v.check_out_time, v.status,
	v.card_id, v.registrar_id, v.contact_phone, v.id_doc_type, v.id_doc_number,
	v.created_at, v.created_by, v.last_updated_at, v.last_updated_by
`

func scanVisit(row pgx.Row) (*domain.Visit, error) {
	var v domain.Visit
	err := row.Scan(
		&v.VisitID,
		&v.WorkerID,
		&v.SiteID,
		&v.CheckInTime,
		&v.CheckOutTime,
		&v.Status,
		&v.CardID,
		&v.RegistrarID,
		&v.ContactPhone,
		&v.IDDocType,
		&v.IDDocNumber,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PgxVisitRepository) findVisitWhere(ctx context.Context, where string, args ...any) (*domain.Visit, error) {
	query := `SELECT ` + visitSelectColumns + ` FROM visits v ` + where
	visit, err := scanVisit(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query visit", err)
	}
	return visit, nil
}

func (r *PgxVisitRepository) FindVisitByID(ctx context.Context, visitID string) (*domain.Visit, error) {
	return r.findVisitWhere(ctx, `WHERE v.visit_id = $1`, visitID)
}

func (r *PgxVisitRepository) FindOpenVisitByWorker(ctx context.Context, workerID string) (*domain.Visit, error) {
	return r.findVisitWhere(ctx,
		`WHERE v.worker_id = $1 AND v.status = $2 ORDER BY v.check_in_time DESC LIMIT 1`,
		workerID, domain.VisitOnSite)
}

func (r *PgxVisitRepository) FindOpenVisitByWorkerAndSite(ctx context.Context, workerID, siteID string) (*domain.Visit, error) {
	return r.findVisitWhere(ctx,
		`WHERE v.worker_id = $1 AND v.site_id = $2 AND v.status = $3`,
		workerID, siteID, domain.VisitOnSite)
}

func (r *PgxVisitRepository) ListVisits(ctx context.Context, filter portsrepo.VisitFilter, limit int, nextToken *string) ([]domain.Visit, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	where := ""
	args := []any{}
	addClause := func(clause string, value any) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.WorkerID != nil {
		addClause("v.worker_id = $%d", *filter.WorkerID)
	}
	if filter.SiteID != nil {
		addClause("v.site_id = $%d", *filter.SiteID)
	}
	if filter.Status != nil {
		addClause("v.status = $%d", *filter.Status)
	}
	if filter.From != nil {
		addClause("v.check_in_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		addClause("v.check_in_time < $%d", *filter.To)
	}

	if nextToken != nil && *nextToken != "" {
		checkInTime, visitID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, checkInTime, visitID)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("(v.check_in_time, v.visit_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	query := `SELECT ` + visitSelectColumns + ` FROM visits v` + where +
		fmt.Sprintf(` ORDER BY v.check_in_time DESC, v.visit_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query visits", err)
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan visit row", err)
		}
		visits = append(visits, *v)
	}
	if rows.Err() != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating visit rows", rows.Err())
	}

	var token *string
	if len(visits) > limit {
		visits = visits[:limit]
		last := visits[len(visits)-1]
		t := pagination.EncodeKeysetToken(last.CheckInTime, last.VisitID)
		token = &t
	}
	return visits, token, nil
}

func (r *PgxVisitRepository) FindVisitsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.Visit, error) {
	query := `SELECT ` + visitSelectColumns + ` FROM visits v
		WHERE v.worker_id = $1
		  AND ((v.check_in_time >= $2 AND v.check_in_time < $3)
		    OR (v.check_out_time >= $2 AND v.check_out_time < $3))
		ORDER BY v.check_in_time ASC;`

	rows, err := r.Pool.Query(ctx, query, workerID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query visits for worker "+workerID, err)
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan visit row", err)
		}
		visits = append(visits, *v)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating visit rows", rows.Err())
	}
	return visits, nil
}

func (r *PgxVisitRepository) SaveVisit(ctx context.Context, visit domain.Visit) error {
	query := `
		INSERT INTO visits (
			visit_id, worker_id, site_id, check_in_time, check_out_time, status,
			card_id, registrar_id, contact_phone, id_doc_type, id_doc_number,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		visit.VisitID,
		visit.WorkerID,
		visit.SiteID,
		visit.CheckInTime,
		visit.CheckOutTime,
		visit.Status,
		visit.CardID,
		visit.RegistrarID,
		visit.ContactPhone,
		visit.IDDocType,
		visit.IDDocNumber,
		visit.CreatedAt,
		visit.CreatedBy,
		visit.LastUpdatedAt,
		visit.LastUpdatedBy,
	)
	if err != nil {
		// The partial unique index on (worker_id, site_id) WHERE status = 'ON_SITE'
		// makes the losing side of a check-in race land here.
		if isUniqueViolation(err, "uq_visits_open_per_worker_site") {
			return fmt.Errorf("%w: open visit exists for worker %s", apperrors.ErrDuplicate, visit.WorkerID)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: visit %s", apperrors.ErrDuplicate, visit.VisitID)
		}
		return apperrors.NewAppError(500, "failed to save visit "+visit.VisitID, err)
	}
	return nil
}

// CloseVisit transitions the visit to LEFT and stamps the exit remarks onto
// its open borrow records in one transaction. The status guard in the UPDATE
// ensures exactly one caller wins when check-outs race.
func (r *PgxVisitRepository) CloseVisit(ctx context.Context, visitID string, checkOutTime time.Time, itemRemarks map[string]string, userID string, now time.Time) (*domain.Visit, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	closeQuery := `
		UPDATE visits
		SET status = $1, check_out_time = $2, last_updated_at = $3, last_updated_by = $4
		WHERE visit_id = $5 AND status = $6
		RETURNING ` + visitColumnsNoAlias + `;
	`
	visit, err := scanVisit(tx.QueryRow(ctx, closeQuery,
		domain.VisitLeft, checkOutTime, now, userID, visitID, domain.VisitOnSite))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the visit doesn't exist or it is no longer ON_SITE.
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.NewAppError(500, "failed to close visit "+visitID, err)
	}

	remarkQuery := `
		UPDATE borrow_records
		SET notes = CASE WHEN notes = '' THEN $1 ELSE notes || E'\n' || $1 END,
			last_updated_at = $2, last_updated_by = $3
		WHERE visit_id = $4 AND item_code = $5 AND returned_at IS NULL;
	`
	for itemCode, remark := range itemRemarks {
		if _, err := tx.Exec(ctx, remarkQuery, remark, now, userID, visitID, itemCode); err != nil {
			return nil, apperrors.NewAppError(500, "failed to append exit remark for item "+itemCode, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return visit, nil
}

// visitColumnsNoAlias mirrors visitSelectColumns for RETURNING clauses, where
// the table alias is not available.
const visitColumnsNoAlias = `
	visit_id, worker_id, site_id, check_in_time, check_out_time, status,
	card_id, registrar_id, contact_phone, id_doc_type, id_doc_number,
	created_at, created_by, last_updated_at, last_updated_by
`

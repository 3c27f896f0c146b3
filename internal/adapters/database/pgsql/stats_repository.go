package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
)

type PgxStatsRepository struct {
	BaseRepository
}

// newPgxStatsRepository creates a new repository for stats projections. Every
// count runs directly against the ledgers so results always reflect current
// state.
func newPgxStatsRepository(pool *pgxpool.Pool) portsrepo.StatsRepositoryFacade {
	return &PgxStatsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StatsRepositoryFacade = (*PgxStatsRepository)(nil)

func (r *PgxStatsRepository) countRow(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to run stats count", err)
	}
	return count, nil
}

func (r *PgxStatsRepository) CountVisitsByStatus(ctx context.Context, status domain.VisitStatus, siteID *string) (int, error) {
	query := `SELECT COUNT(*) FROM visits WHERE status = $1`
	args := []any{status}
	if siteID != nil {
		query += ` AND site_id = $2`
		args = append(args, *siteID)
	}
	return r.countRow(ctx, query, args...)
}

func (r *PgxStatsRepository) CountCheckInsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error) {
	query := `SELECT COUNT(*) FROM visits WHERE check_in_time >= $1 AND check_in_time < $2`
	args := []any{from, to}
	if siteID != nil {
		query += ` AND site_id = $3`
		args = append(args, *siteID)
	}
	return r.countRow(ctx, query, args...)
}

func (r *PgxStatsRepository) CountCheckOutsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error) {
	query := `SELECT COUNT(*) FROM visits WHERE check_out_time >= $1 AND check_out_time < $2`
	args := []any{from, to}
	if siteID != nil {
		query += ` AND site_id = $3`
		args = append(args, *siteID)
	}
	return r.countRow(ctx, query, args...)
}

func (r *PgxStatsRepository) CountBorrowsBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countRow(ctx,
		`SELECT COUNT(*) FROM borrow_records WHERE borrowed_at >= $1 AND borrowed_at < $2`,
		from, to)
}

func (r *PgxStatsRepository) CountOpenBorrows(ctx context.Context) (int, error) {
	return r.countRow(ctx, `SELECT COUNT(*) FROM borrow_records WHERE returned_at IS NULL`)
}

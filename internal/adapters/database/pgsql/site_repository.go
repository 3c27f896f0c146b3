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
)

type PgxSiteRepository struct {
	BaseRepository
}

// newPgxSiteRepository creates a new repository for site data.
func newPgxSiteRepository(pool *pgxpool.Pool) portsrepo.SiteRepositoryFacade {
	return &PgxSiteRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SiteRepositoryFacade = (*PgxSiteRepository)(nil)

const siteSelectColumns = `
	s.site_id, s.name, s.address, s.is_active,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
`

func scanSite(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	err := row.Scan(
		&s.SiteID,
		&s.Name,
		&s.Address,
		&s.IsActive,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxSiteRepository) FindSiteByID(ctx context.Context, siteID string) (*domain.Site, error) {
	query := `SELECT ` + siteSelectColumns + ` FROM sites s WHERE s.site_id = $1`
	site, err := scanSite(r.Pool.QueryRow(ctx, query, siteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query site", err)
	}
	return site, nil
}

func (r *PgxSiteRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	query := `SELECT ` + siteSelectColumns + ` FROM sites s ORDER BY s.name ASC`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sites", err)
	}
	defer rows.Close()

	sites := []domain.Site{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan site row", err)
		}
		sites = append(sites, *s)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating site rows", rows.Err())
	}
	return sites, nil
}

func (r *PgxSiteRepository) SaveSite(ctx context.Context, site domain.Site) error {
	query := `
		INSERT INTO sites (
			site_id, name, address, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		site.SiteID,
		site.Name,
		site.Address,
		site.IsActive,
		site.CreatedAt,
		site.CreatedBy,
		site.LastUpdatedAt,
		site.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: site %s", apperrors.ErrDuplicate, site.SiteID)
		}
		return apperrors.NewAppError(500, "failed to save site "+site.SiteID, err)
	}
	return nil
}

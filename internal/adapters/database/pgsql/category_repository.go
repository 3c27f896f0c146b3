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

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for item category reference data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categorySelectColumns = `
	c.category_id, c.code, c.name,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
`

func scanCategory(row pgx.Row) (*domain.ItemCategory, error) {
	var c domain.ItemCategory
	err := row.Scan(
		&c.CategoryID,
		&c.Code,
		&c.Name,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxCategoryRepository) findCategoryWhere(ctx context.Context, where string, args ...any) (*domain.ItemCategory, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM item_categories c ` + where
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query item category", err)
	}
	return category, nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ItemCategory, error) {
	return r.findCategoryWhere(ctx, `WHERE c.category_id = $1`, categoryID)
}

func (r *PgxCategoryRepository) FindCategoryByCode(ctx context.Context, code string) (*domain.ItemCategory, error) {
	return r.findCategoryWhere(ctx, `WHERE c.code = $1`, code)
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM item_categories c ORDER BY c.code ASC`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query item categories", err)
	}
	defer rows.Close()

	categories := []domain.ItemCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item category row", err)
		}
		categories = append(categories, *c)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating item category rows", rows.Err())
	}
	return categories, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.ItemCategory) error {
	query := `
		INSERT INTO item_categories (
			category_id, code, name,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Code,
		category.Name,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: category code %s", apperrors.ErrDuplicate, category.Code)
		}
		return apperrors.NewAppError(500, "failed to save item category "+category.CategoryID, err)
	}
	return nil
}

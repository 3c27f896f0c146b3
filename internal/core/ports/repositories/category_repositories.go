package repositories

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// CategoryRepositoryFacade defines persistence operations for item categories.
// Categories are static reference data; writes exist for seeding and the
// occasional administrative addition.
type CategoryRepositoryFacade interface {
	// FindCategoryByID retrieves a category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.ItemCategory, error)

	// FindCategoryByCode retrieves a category by its short code (e.g. HELMET).
	FindCategoryByCode(ctx context.Context, code string) (*domain.ItemCategory, error)

	// ListCategories retrieves all categories ordered by code.
	ListCategories(ctx context.Context) ([]domain.ItemCategory, error)

	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.ItemCategory) error
}

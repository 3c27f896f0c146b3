package repositories

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// SiteRepositoryFacade defines persistence operations for sites.
type SiteRepositoryFacade interface {
	// FindSiteByID retrieves a site by its unique identifier.
	FindSiteByID(ctx context.Context, siteID string) (*domain.Site, error)

	// ListSites retrieves all sites ordered by name.
	ListSites(ctx context.Context) ([]domain.Site, error)

	// SaveSite persists a new site.
	SaveSite(ctx context.Context, site domain.Site) error
}

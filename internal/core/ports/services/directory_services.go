package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// DirectorySvcFacade resolves scanned identifiers to worker profiles. A single
// resolver accepts either a worker code or a physical-card code (worker code
// tried first) so the two entry paths share one set of validation rules.
type DirectorySvcFacade interface {
	// ResolveWorker resolves an identifier to a worker profile.
	// Returns apperrors.ErrNotFound when neither lookup matches.
	ResolveWorker(ctx context.Context, identifier string) (*domain.Worker, error)

	// FindOpenVisit resolves an identifier and returns the worker together
	// with their current ON_SITE visit. Returns ErrNoOpenVisit when the worker
	// exists but is not on site.
	FindOpenVisit(ctx context.Context, identifier string) (*domain.Worker, *domain.Visit, error)
}

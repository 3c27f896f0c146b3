package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/dto"
)

// StatsSvcFacade derives gate counters from the two ledgers. Pure read-side
// projections with no side effects.
type StatsSvcFacade interface {
	// Overview computes the gate dashboard counters, optionally scoped to one
	// site. "Today" is the current calendar day in the site's timezone.
	Overview(ctx context.Context, siteID *string) (*dto.StatsOverviewResponse, error)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
	"github.com/gatecrew/site_custody_app/internal/middleware"
)

// statsService derives the gate dashboard counters from ledger state. Every
// call recomputes from the repositories; nothing is cached or stored
// redundantly, so the counters cannot desynchronize from the ledgers.
type statsService struct {
	statsRepo portsrepo.StatsRepositoryFacade
	siteTZ    *time.Location
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo portsrepo.StatsRepositoryFacade, siteTZ *time.Location) portssvc.StatsSvcFacade {
	if siteTZ == nil {
		siteTZ = time.UTC
	}
	return &statsService{statsRepo: statsRepo, siteTZ: siteTZ}
}

var _ portssvc.StatsSvcFacade = (*statsService)(nil)

// Overview computes the dashboard counters. "Today" is the current calendar
// day in the site's timezone; pendingReturn deliberately has no day filter,
// it is the custody backlog.
func (s *statsService) Overview(ctx context.Context, siteID *string) (*dto.StatsOverviewResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	from, to := dayBounds(now, s.siteTZ)

	onSite, err := s.statsRepo.CountVisitsByStatus(ctx, domain.VisitOnSite, siteID)
	if err != nil {
		logger.Error("Failed to count on-site visits", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute on-site count: %w", err)
	}

	entered, err := s.statsRepo.CountCheckInsBetween(ctx, from, to, siteID)
	if err != nil {
		logger.Error("Failed to count today's check-ins", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute entered-today count: %w", err)
	}

	exited, err := s.statsRepo.CountCheckOutsBetween(ctx, from, to, siteID)
	if err != nil {
		logger.Error("Failed to count today's check-outs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute exited-today count: %w", err)
	}

	borrowed, err := s.statsRepo.CountBorrowsBetween(ctx, from, to)
	if err != nil {
		logger.Error("Failed to count today's borrows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute borrowed-today count: %w", err)
	}

	pending, err := s.statsRepo.CountOpenBorrows(ctx)
	if err != nil {
		logger.Error("Failed to count open borrows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute pending-return count: %w", err)
	}

	return &dto.StatsOverviewResponse{
		OnSiteCount:   onSite,
		EnteredToday:  entered,
		ExitedToday:   exited,
		BorrowedToday: borrowed,
		PendingReturn: pending,
		AsOf:          now,
		Day:           now.In(s.siteTZ).Format("2006-01-02"),
	}, nil
}

package services

import (
	"log/slog"

	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Directory comes first since the visit workflow resolves workers through it.
	container.Directory = NewDirectoryService(repos.WorkerRepo, repos.VisitRepo)

	container.Worker = NewWorkerService(repos.WorkerRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)

	container.Visit = NewVisitService(
		repos.VisitRepo,
		repos.BorrowRepo,
		repos.SiteRepo,
		container.Directory,
		cfg.SiteLocation,
	)
	container.Custody = NewCustodyService(repos.BorrowRepo, repos.VisitRepo, repos.CategoryRepo)
	container.Reconciliation = NewReconciliationService(repos.VisitRepo, repos.BorrowRepo, cfg.SiteLocation)
	container.Stats = NewStatsService(repos.StatsRepo, cfg.SiteLocation)

	dispatchSvc := NewDispatchService(
		repos.DispatchRepo,
		repos.WorkerRepo,
		NewLogNotifier(logger),
		logger,
		WithPollInterval(cfg.DispatchPollInterval),
		WithBatchSize(cfg.DispatchBatchSize),
	)
	container.Dispatch = dispatchSvc
	container.DispatchRunner = dispatchSvc

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg, container.User)

	return container
}

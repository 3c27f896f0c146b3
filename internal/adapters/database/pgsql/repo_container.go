package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql-backed repository into one provider.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WorkerRepo:   newPgxWorkerRepository(dbPool),
		VisitRepo:    newPgxVisitRepository(dbPool),
		BorrowRepo:   newPgxBorrowRepository(dbPool),
		CategoryRepo: newPgxCategoryRepository(dbPool),
		SiteRepo:     newPgxSiteRepository(dbPool),
		StatsRepo:    newPgxStatsRepository(dbPool),
		DispatchRepo: newPgxDispatchRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}

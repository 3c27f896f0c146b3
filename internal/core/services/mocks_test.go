package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portsrepo "github.com/gatecrew/site_custody_app/internal/core/ports/repositories"
)

// Shared repository mocks for the service tests in this package.

// MockWorkerRepository is a mock for the WorkerRepositoryFacade interface.
type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) FindWorkerByCode(ctx context.Context, workerCode string) (*domain.Worker, error) {
	args := m.Called(ctx, workerCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) FindWorkerByCardID(ctx context.Context, cardID string) (*domain.Worker, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) ListWorkers(ctx context.Context, limit int, nextToken *string) ([]domain.Worker, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var workers []domain.Worker
	if args.Get(0) != nil {
		workers = args.Get(0).([]domain.Worker)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return workers, token, args.Error(2)
}

func (m *MockWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

// MockVisitRepository is a mock for the VisitRepositoryFacade interface.
type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) FindVisitByID(ctx context.Context, visitID string) (*domain.Visit, error) {
	args := m.Called(ctx, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) FindOpenVisitByWorker(ctx context.Context, workerID string) (*domain.Visit, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) FindOpenVisitByWorkerAndSite(ctx context.Context, workerID, siteID string) (*domain.Visit, error) {
	args := m.Called(ctx, workerID, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) ListVisits(ctx context.Context, filter portsrepo.VisitFilter, limit int, nextToken *string) ([]domain.Visit, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var visits []domain.Visit
	if args.Get(0) != nil {
		visits = args.Get(0).([]domain.Visit)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return visits, token, args.Error(2)
}

func (m *MockVisitRepository) FindVisitsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.Visit, error) {
	args := m.Called(ctx, workerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) SaveVisit(ctx context.Context, visit domain.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockVisitRepository) CloseVisit(ctx context.Context, visitID string, checkOutTime time.Time, itemRemarks map[string]string, userID string, now time.Time) (*domain.Visit, error) {
	args := m.Called(ctx, visitID, checkOutTime, itemRemarks, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

// MockBorrowRepository is a mock for the BorrowRepositoryFacade interface.
type MockBorrowRepository struct {
	mock.Mock
}

func (m *MockBorrowRepository) FindBorrowRecordByID(ctx context.Context, recordID string) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepository) FindBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepository) FindOpenBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepository) ListBorrowRecordsByWorker(ctx context.Context, workerID string, limit int, nextToken *string) ([]domain.BorrowRecord, *string, error) {
	args := m.Called(ctx, workerID, limit, nextToken)
	var records []domain.BorrowRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.BorrowRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

func (m *MockBorrowRepository) FindBorrowRecordsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, workerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepository) SaveBorrowRecord(ctx context.Context, record domain.BorrowRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockBorrowRepository) SaveBorrowRecords(ctx context.Context, records []domain.BorrowRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockBorrowRepository) MarkReturned(ctx context.Context, recordID string, returnedAt time.Time, userID string) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, recordID, returnedAt, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}

// MockCategoryRepository is a mock for the CategoryRepositoryFacade interface.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ItemCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByCode(ctx context.Context, code string) (*domain.ItemCategory, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemCategory), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.ItemCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockSiteRepository is a mock for the SiteRepositoryFacade interface.
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) FindSiteByID(ctx context.Context, siteID string) (*domain.Site, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Site), args.Error(1)
}

func (m *MockSiteRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Site), args.Error(1)
}

func (m *MockSiteRepository) SaveSite(ctx context.Context, site domain.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

// MockStatsRepository is a mock for the StatsRepositoryFacade interface.
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountVisitsByStatus(ctx context.Context, status domain.VisitStatus, siteID *string) (int, error) {
	args := m.Called(ctx, status, siteID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountCheckInsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error) {
	args := m.Called(ctx, from, to, siteID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountCheckOutsBetween(ctx context.Context, from, to time.Time, siteID *string) (int, error) {
	args := m.Called(ctx, from, to, siteID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountBorrowsBetween(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountOpenBorrows(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockDispatchRepository is a mock for the DispatchRepositoryFacade interface.
type MockDispatchRepository struct {
	mock.Mock
}

func (m *MockDispatchRepository) SaveJob(ctx context.Context, job domain.DispatchJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockDispatchRepository) SaveJobTargets(ctx context.Context, jobID string, workerIDs []string) error {
	args := m.Called(ctx, jobID, workerIDs)
	return args.Error(0)
}

func (m *MockDispatchRepository) FindJobTargets(ctx context.Context, jobID string) ([]string, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDispatchRepository) FindJobByID(ctx context.Context, jobID string) (*domain.DispatchJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchJob), args.Error(1)
}

func (m *MockDispatchRepository) ClaimNextPendingJob(ctx context.Context, now time.Time) (*domain.DispatchJob, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchJob), args.Error(1)
}

func (m *MockDispatchRepository) UpdateJobProgress(ctx context.Context, jobID string, processedCount int, now time.Time) error {
	args := m.Called(ctx, jobID, processedCount, now)
	return args.Error(0)
}

func (m *MockDispatchRepository) FinishJob(ctx context.Context, jobID string, status domain.DispatchStatus, failureReason string, now time.Time) error {
	args := m.Called(ctx, jobID, status, failureReason, now)
	return args.Error(0)
}

func (m *MockDispatchRepository) RequestCancel(ctx context.Context, jobID string, userID string, now time.Time) error {
	args := m.Called(ctx, jobID, userID, now)
	return args.Error(0)
}

// MockUserRepository is a mock for the UserRepositoryFacade interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/core/services"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockVisitRepo  *MockVisitRepository
	mockBorrowRepo *MockBorrowRepository
	service        portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockVisitRepo = new(MockVisitRepository)
	suite.mockBorrowRepo = new(MockBorrowRepository)
	suite.service = services.NewReconciliationService(suite.mockVisitRepo, suite.mockBorrowRepo, time.UTC)
}

func (suite *ReconciliationServiceTestSuite) TestVisitSummary_CountsAndOpenRecords() {
	ctx := context.Background()
	visit := &domain.Visit{VisitID: "visit-1", WorkerID: "worker-1", Status: domain.VisitOnSite}
	returnedAt := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	records := []domain.BorrowRecord{
		{RecordID: "rec-1", VisitID: "visit-1", ItemCode: "HELMET-07"},
		{RecordID: "rec-2", VisitID: "visit-1", ItemCode: "DRILL-11", ReturnedAt: &returnedAt},
		{RecordID: "rec-3", VisitID: "visit-1", ItemCode: "RADIO-02"},
	}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(visit, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordsByVisitID", ctx, "visit-1").Return(records, nil).Once()

	summary, err := suite.service.VisitSummary(ctx, "visit-1")

	suite.Require().NoError(err)
	suite.Equal(3, summary.BorrowedCount)
	suite.Equal(1, summary.ReturnedCount)
	suite.Require().Len(summary.OpenRecords, 2)
	suite.Equal("HELMET-07", summary.OpenRecords[0].ItemCode)
	suite.Equal("RADIO-02", summary.OpenRecords[1].ItemCode)
}

func (suite *ReconciliationServiceTestSuite) TestVisitSummary_NoRecords() {
	ctx := context.Background()
	visit := &domain.Visit{VisitID: "visit-1", Status: domain.VisitOnSite}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(visit, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordsByVisitID", ctx, "visit-1").Return([]domain.BorrowRecord{}, nil).Once()

	summary, err := suite.service.VisitSummary(ctx, "visit-1")

	suite.Require().NoError(err)
	suite.Zero(summary.BorrowedCount)
	suite.Zero(summary.ReturnedCount)
	suite.Empty(summary.OpenRecords)
}

func (suite *ReconciliationServiceTestSuite) TestVisitSummary_VisitNotFound() {
	ctx := context.Background()
	suite.mockVisitRepo.On("FindVisitByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.VisitSummary(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestDailyTimeline_MergedAndSorted() {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	checkIn := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 8, 29, 16, 30, 0, 0, time.UTC)
	borrowedAt := time.Date(2026, 8, 29, 8, 15, 0, 0, time.UTC)
	returnedAt := time.Date(2026, 8, 29, 16, 0, 0, 0, time.UTC)

	visits := []domain.Visit{{VisitID: "visit-1", WorkerID: "worker-1", SiteID: "site-1", CheckInTime: checkIn, CheckOutTime: &checkOut, Status: domain.VisitLeft}}
	records := []domain.BorrowRecord{{RecordID: "rec-1", VisitID: "visit-1", WorkerID: "worker-1", ItemCode: "DRILL-11", BorrowedAt: borrowedAt, ReturnedAt: &returnedAt}}

	suite.mockVisitRepo.On("FindVisitsByWorkerBetween", ctx, "worker-1", from, to).Return(visits, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordsByWorkerBetween", ctx, "worker-1", from, to).Return(records, nil).Once()

	entries, err := suite.service.DailyTimeline(ctx, "worker-1", day)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 4)
	suite.Equal(domain.ActivityCheckIn, entries[0].Kind)
	suite.Equal(domain.ActivityBorrow, entries[1].Kind)
	suite.Equal(domain.ActivityReturn, entries[2].Kind)
	suite.Equal(domain.ActivityCheckOut, entries[3].Kind)
	for i := 1; i < len(entries); i++ {
		suite.False(entries[i].OccurredAt.Before(entries[i-1].OccurredAt))
	}
}

func (suite *ReconciliationServiceTestSuite) TestDailyTimeline_EventsOutsideDayAreExcluded() {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	// Overnight visit: check-in the day before, check-out within the day.
	checkIn := time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	visits := []domain.Visit{{VisitID: "visit-1", SiteID: "site-1", CheckInTime: checkIn, CheckOutTime: &checkOut, Status: domain.VisitLeft}}

	suite.mockVisitRepo.On("FindVisitsByWorkerBetween", ctx, "worker-1", from, to).Return(visits, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordsByWorkerBetween", ctx, "worker-1", from, to).Return([]domain.BorrowRecord{}, nil).Once()

	entries, err := suite.service.DailyTimeline(ctx, "worker-1", day)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(domain.ActivityCheckOut, entries[0].Kind)
}

func (suite *ReconciliationServiceTestSuite) TestDailyTimeline_EmptyDayGetsPlaceholder() {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	suite.mockVisitRepo.On("FindVisitsByWorkerBetween", ctx, "worker-1", from, to).Return([]domain.Visit{}, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordsByWorkerBetween", ctx, "worker-1", from, to).Return([]domain.BorrowRecord{}, nil).Once()

	entries, err := suite.service.DailyTimeline(ctx, "worker-1", day)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(domain.ActivityNone, entries[0].Kind)
	suite.True(entries[0].OccurredAt.Equal(from))
	suite.Equal("no activity recorded for this day", entries[0].Detail)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/core/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

type CustodyServiceTestSuite struct {
	suite.Suite
	mockBorrowRepo   *MockBorrowRepository
	mockVisitRepo    *MockVisitRepository
	mockCategoryRepo *MockCategoryRepository
	service          portssvc.CustodySvcFacade
}

func (suite *CustodyServiceTestSuite) SetupTest() {
	suite.mockBorrowRepo = new(MockBorrowRepository)
	suite.mockVisitRepo = new(MockVisitRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCustodyService(suite.mockBorrowRepo, suite.mockVisitRepo, suite.mockCategoryRepo)
}

func (suite *CustodyServiceTestSuite) openVisit() *domain.Visit {
	return &domain.Visit{VisitID: "visit-1", WorkerID: "worker-1", SiteID: "site-1", Status: domain.VisitOnSite}
}

func (suite *CustodyServiceTestSuite) category() *domain.ItemCategory {
	return &domain.ItemCategory{CategoryID: "cat-tool", Code: "TOOL", Name: "Power tools"}
}

func (suite *CustodyServiceTestSuite) TestBorrow_Success() {
	ctx := context.Background()
	req := dto.BorrowRequest{VisitID: "visit-1", CategoryID: "cat-tool", ItemCode: "DRILL-11", Notes: "battery low"}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(suite.openVisit(), nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-tool").Return(suite.category(), nil).Once()
	suite.mockBorrowRepo.On("SaveBorrowRecord", ctx, mock.AnythingOfType("domain.BorrowRecord")).Return(nil).Once()

	record, err := suite.service.Borrow(ctx, req, "guard-1")

	suite.Require().NoError(err)
	suite.NotEmpty(record.RecordID)
	suite.Equal("visit-1", record.VisitID)
	suite.Equal("worker-1", record.WorkerID)
	suite.Equal("DRILL-11", record.ItemCode)
	suite.Equal("battery low", record.Notes)
	suite.Nil(record.ReturnedAt)
	suite.Equal(domain.Borrowed, record.Status())
	suite.mockBorrowRepo.AssertExpectations(suite.T())
}

func (suite *CustodyServiceTestSuite) TestBorrow_ClosedVisitRejected() {
	ctx := context.Background()
	checkOut := time.Now().UTC()
	closed := &domain.Visit{VisitID: "visit-1", Status: domain.VisitLeft, CheckOutTime: &checkOut}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(closed, nil).Once()

	_, err := suite.service.Borrow(ctx, dto.BorrowRequest{VisitID: "visit-1", CategoryID: "cat-tool", ItemCode: "DRILL-11"}, "guard-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotOnSite)
	suite.mockBorrowRepo.AssertNotCalled(suite.T(), "SaveBorrowRecord", mock.Anything, mock.Anything)
}

func (suite *CustodyServiceTestSuite) TestBorrow_MissingVisitRejected() {
	ctx := context.Background()
	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-gone").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Borrow(ctx, dto.BorrowRequest{VisitID: "visit-gone", CategoryID: "cat-tool", ItemCode: "DRILL-11"}, "guard-1")

	suite.ErrorIs(err, services.ErrNotOnSite)
}

func (suite *CustodyServiceTestSuite) TestBorrow_UnknownCategory() {
	ctx := context.Background()
	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(suite.openVisit(), nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-bogus").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Borrow(ctx, dto.BorrowRequest{VisitID: "visit-1", CategoryID: "cat-bogus", ItemCode: "DRILL-11"}, "guard-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownCategory)
	suite.mockBorrowRepo.AssertNotCalled(suite.T(), "SaveBorrowRecord", mock.Anything, mock.Anything)
}

func (suite *CustodyServiceTestSuite) TestBorrow_LosesRaceToCheckout() {
	ctx := context.Background()

	// The visit looks open at pre-check time but a check-out closes it
	// before the insert; the repository rejects the write.
	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(suite.openVisit(), nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-tool").Return(suite.category(), nil).Once()
	suite.mockBorrowRepo.On("SaveBorrowRecord", ctx, mock.AnythingOfType("domain.BorrowRecord")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.Borrow(ctx, dto.BorrowRequest{VisitID: "visit-1", CategoryID: "cat-tool", ItemCode: "DRILL-11"}, "guard-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotOnSite)
	suite.mockBorrowRepo.AssertExpectations(suite.T())
}

func (suite *CustodyServiceTestSuite) TestBorrowBatch_PartialFailure() {
	ctx := context.Background()
	req := dto.BorrowBatchRequest{
		VisitID: "visit-1",
		Items: []dto.BorrowBatchItem{
			{CategoryID: "cat-tool", ItemCode: "DRILL-11"},
			{CategoryID: "cat-bogus", ItemCode: "LADDER-03"},
			{CategoryID: "cat-tool", ItemCode: "SAW-05"},
		},
	}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(suite.openVisit(), nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-tool").Return(suite.category(), nil).Twice()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-bogus").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBorrowRepo.On("SaveBorrowRecords", ctx, mock.MatchedBy(func(records []domain.BorrowRecord) bool {
		return len(records) == 2 && records[0].ItemCode == "DRILL-11" && records[1].ItemCode == "SAW-05"
	})).Return(nil).Once()

	resp, err := suite.service.BorrowBatch(ctx, req, "guard-1")

	suite.Require().NoError(err)
	suite.Equal(2, resp.SuccessCount)
	suite.Equal(1, resp.FailureCount)
	suite.Require().Len(resp.Results, 3)
	suite.NotNil(resp.Results[0].Record)
	suite.Nil(resp.Results[1].Record)
	suite.Contains(resp.Results[1].Error, "cat-bogus")
	suite.NotNil(resp.Results[2].Record)
	suite.mockBorrowRepo.AssertExpectations(suite.T())
}

func (suite *CustodyServiceTestSuite) TestBorrowBatch_ClosedVisitAbortsWholeBatch() {
	ctx := context.Background()
	closed := &domain.Visit{VisitID: "visit-1", Status: domain.VisitLeft}
	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(closed, nil).Once()

	_, err := suite.service.BorrowBatch(ctx, dto.BorrowBatchRequest{
		VisitID: "visit-1",
		Items:   []dto.BorrowBatchItem{{CategoryID: "cat-tool", ItemCode: "DRILL-11"}},
	}, "guard-1")

	suite.ErrorIs(err, services.ErrNotOnSite)
	suite.mockBorrowRepo.AssertNotCalled(suite.T(), "SaveBorrowRecords", mock.Anything, mock.Anything)
}

func (suite *CustodyServiceTestSuite) TestBorrowBatch_LosesRaceToCheckout() {
	ctx := context.Background()
	req := dto.BorrowBatchRequest{
		VisitID: "visit-1",
		Items:   []dto.BorrowBatchItem{{CategoryID: "cat-tool", ItemCode: "DRILL-11"}},
	}

	suite.mockVisitRepo.On("FindVisitByID", ctx, "visit-1").Return(suite.openVisit(), nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-tool").Return(suite.category(), nil).Once()
	suite.mockBorrowRepo.On("SaveBorrowRecords", ctx, mock.AnythingOfType("[]domain.BorrowRecord")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.BorrowBatch(ctx, req, "guard-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotOnSite)
}

func (suite *CustodyServiceTestSuite) TestReturn_Success() {
	ctx := context.Background()
	open := &domain.BorrowRecord{RecordID: "rec-1", VisitID: "visit-1", ItemCode: "DRILL-11"}
	returnedAt := time.Now().UTC()
	returned := &domain.BorrowRecord{RecordID: "rec-1", VisitID: "visit-1", ItemCode: "DRILL-11", ReturnedAt: &returnedAt}

	suite.mockBorrowRepo.On("FindBorrowRecordByID", ctx, "rec-1").Return(open, nil).Once()
	suite.mockBorrowRepo.On("MarkReturned", ctx, "rec-1", mock.AnythingOfType("time.Time"), "guard-1").Return(returned, nil).Once()

	record, err := suite.service.Return(ctx, "rec-1", "guard-1")

	suite.Require().NoError(err)
	suite.Equal(domain.Returned, record.Status())
}

func (suite *CustodyServiceTestSuite) TestReturn_AlreadyReturnedIsNoOp() {
	ctx := context.Background()
	returnedAt := time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC)
	returned := &domain.BorrowRecord{RecordID: "rec-1", VisitID: "visit-1", ItemCode: "DRILL-11", ReturnedAt: &returnedAt}

	suite.mockBorrowRepo.On("FindBorrowRecordByID", ctx, "rec-1").Return(returned, nil).Once()

	record, err := suite.service.Return(ctx, "rec-1", "guard-1")

	suite.Require().NoError(err)
	suite.Equal(domain.Returned, record.Status())
	suite.Require().NotNil(record.ReturnedAt)
	suite.True(record.ReturnedAt.Equal(returnedAt))
	suite.mockBorrowRepo.AssertNotCalled(suite.T(), "MarkReturned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CustodyServiceTestSuite) TestReturn_NotFound() {
	ctx := context.Background()
	suite.mockBorrowRepo.On("FindBorrowRecordByID", ctx, "rec-gone").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Return(ctx, "rec-gone", "guard-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBorrowRepo.AssertNotCalled(suite.T(), "MarkReturned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CustodyServiceTestSuite) TestReturnMany_ReportsPerRecordOutcomes() {
	ctx := context.Background()
	open := &domain.BorrowRecord{RecordID: "rec-1", ItemCode: "DRILL-11"}
	returnedAt := time.Now().UTC()
	returned := &domain.BorrowRecord{RecordID: "rec-1", ItemCode: "DRILL-11", ReturnedAt: &returnedAt}

	suite.mockBorrowRepo.On("FindBorrowRecordByID", ctx, "rec-1").Return(open, nil).Once()
	suite.mockBorrowRepo.On("MarkReturned", ctx, "rec-1", mock.AnythingOfType("time.Time"), "guard-1").Return(returned, nil).Once()
	suite.mockBorrowRepo.On("FindBorrowRecordByID", ctx, "rec-gone").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ReturnMany(ctx, []string{"rec-1", "rec-gone"}, "guard-1")

	suite.Require().NoError(err)
	suite.Require().Len(resp.Results, 2)
	suite.NotNil(resp.Results[0].Record)
	suite.Empty(resp.Results[0].Error)
	suite.Nil(resp.Results[1].Record)
	suite.NotEmpty(resp.Results[1].Error)
}

func (suite *CustodyServiceTestSuite) TestListBorrowRecords_BothFiltersRejected() {
	ctx := context.Background()
	visitID := "visit-1"
	workerID := "worker-1"

	_, err := suite.service.ListBorrowRecords(ctx, dto.ListBorrowRecordsParams{VisitID: &visitID, WorkerID: &workerID})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CustodyServiceTestSuite) TestListBorrowRecords_NoFilterRejected() {
	_, err := suite.service.ListBorrowRecords(context.Background(), dto.ListBorrowRecordsParams{})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CustodyServiceTestSuite) TestListBorrowRecords_ByWorkerPaginates() {
	ctx := context.Background()
	workerID := "worker-1"
	nextToken := "token-abc"
	records := []domain.BorrowRecord{{RecordID: "rec-1", WorkerID: "worker-1", ItemCode: "DRILL-11"}}

	suite.mockBorrowRepo.On("ListBorrowRecordsByWorker", ctx, "worker-1", 20, (*string)(nil)).Return(records, &nextToken, nil).Once()

	resp, err := suite.service.ListBorrowRecords(ctx, dto.ListBorrowRecordsParams{WorkerID: &workerID})

	suite.Require().NoError(err)
	suite.Len(resp.Records, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-abc", *resp.NextToken)
}

func (suite *CustodyServiceTestSuite) TestListBorrowRecords_ClampsLimit() {
	ctx := context.Background()
	workerID := "worker-1"

	suite.mockBorrowRepo.On("ListBorrowRecordsByWorker", ctx, "worker-1", 20, (*string)(nil)).Return([]domain.BorrowRecord{}, (*string)(nil), nil).Once()

	_, err := suite.service.ListBorrowRecords(ctx, dto.ListBorrowRecordsParams{WorkerID: &workerID, Limit: 500})

	suite.Require().NoError(err)
	suite.mockBorrowRepo.AssertExpectations(suite.T())
}

func TestCustodyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustodyServiceTestSuite))
}

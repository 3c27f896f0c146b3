package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/core/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

type WorkerServiceTestSuite struct {
	suite.Suite
	mockWorkerRepo *MockWorkerRepository
	service        portssvc.WorkerSvcFacade
}

func (suite *WorkerServiceTestSuite) SetupTest() {
	suite.mockWorkerRepo = new(MockWorkerRepository)
	suite.service = services.NewWorkerService(suite.mockWorkerRepo)
}

func (suite *WorkerServiceTestSuite) TestCreateWorker_Success() {
	ctx := context.Background()
	req := dto.CreateWorkerRequest{
		WorkerCode:  "W-1001",
		Name:        "Ivan Petrov",
		Phone:       "555-0101",
		IDDocType:   string(domain.IDDocNationalID),
		IDDocNumber: "AB1234567",
		CardID:      "CARD-42",
	}

	suite.mockWorkerRepo.On("SaveWorker", ctx, mock.AnythingOfType("domain.Worker")).Return(nil).Once()

	worker, err := suite.service.CreateWorker(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(worker.WorkerID)
	suite.Equal("W-1001", worker.WorkerCode)
	suite.Equal(domain.IDDocNationalID, worker.IDDocType)
	suite.Equal("admin-1", worker.CreatedBy)
}

func (suite *WorkerServiceTestSuite) TestCreateWorker_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateWorkerRequest{WorkerCode: "W-1001", Name: "Ivan Petrov", IDDocType: string(domain.IDDocNationalID), IDDocNumber: "AB1234567"}

	suite.mockWorkerRepo.On("SaveWorker", ctx, mock.AnythingOfType("domain.Worker")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateWorker(ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *WorkerServiceTestSuite) TestUpdateWorker_PartialUpdate() {
	ctx := context.Background()
	existing := &domain.Worker{WorkerID: "worker-1", WorkerCode: "W-1001", Name: "Ivan Petrov", Phone: "555-0101", CardID: "CARD-42"}
	newPhone := "555-0202"

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-1").Return(existing, nil).Once()
	suite.mockWorkerRepo.On("UpdateWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		return w.Phone == "555-0202" && w.Name == "Ivan Petrov" && w.CardID == "CARD-42" && w.LastUpdatedBy == "admin-1"
	})).Return(nil).Once()

	worker, err := suite.service.UpdateWorker(ctx, "worker-1", dto.UpdateWorkerRequest{Phone: &newPhone}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("555-0202", worker.Phone)
	suite.mockWorkerRepo.AssertExpectations(suite.T())
}

func (suite *WorkerServiceTestSuite) TestUpdateWorker_CardAlreadyAssigned() {
	ctx := context.Background()
	existing := &domain.Worker{WorkerID: "worker-1", WorkerCode: "W-1001"}
	takenCard := "CARD-99"

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-1").Return(existing, nil).Once()
	suite.mockWorkerRepo.On("UpdateWorker", ctx, mock.AnythingOfType("domain.Worker")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.UpdateWorker(ctx, "worker-1", dto.UpdateWorkerRequest{CardID: &takenCard}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "card")
}

func (suite *WorkerServiceTestSuite) TestListWorkers_ClampsLimit() {
	ctx := context.Background()
	workers := []domain.Worker{{WorkerID: "worker-1", WorkerCode: "W-1001"}}

	suite.mockWorkerRepo.On("ListWorkers", ctx, 20, (*string)(nil)).Return(workers, nil, nil).Once()

	resp, err := suite.service.ListWorkers(ctx, dto.ListWorkersParams{Limit: 500})

	suite.Require().NoError(err)
	suite.Len(resp.Workers, 1)
	suite.Nil(resp.NextToken)
}

func TestWorkerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerServiceTestSuite))
}

package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gatecrew/site_custody_app/internal/apperrors"
	"github.com/gatecrew/site_custody_app/internal/core/domain"
	"github.com/gatecrew/site_custody_app/internal/core/services"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

type DispatchServiceTestSuite struct {
	suite.Suite
	mockDispatchRepo *MockDispatchRepository
	mockWorkerRepo   *MockWorkerRepository
	delivered        []string
	service          *services.DispatchService
}

func (suite *DispatchServiceTestSuite) SetupTest() {
	suite.mockDispatchRepo = new(MockDispatchRepository)
	suite.mockWorkerRepo = new(MockWorkerRepository)
	suite.delivered = nil
	notifier := services.NotifierFunc(func(ctx context.Context, workerID string) error {
		suite.delivered = append(suite.delivered, workerID)
		return nil
	})
	suite.service = services.NewDispatchService(
		suite.mockDispatchRepo,
		suite.mockWorkerRepo,
		notifier,
		slog.Default(),
		services.WithPollInterval(10*time.Millisecond),
		services.WithBatchSize(2),
	)
}

func (suite *DispatchServiceTestSuite) TestCreateDispatch_Success() {
	ctx := context.Background()
	req := dto.CreateDispatchRequest{Kind: "QR_NOTIFICATION", WorkerIDs: []string{"worker-1", "worker-2"}}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-1").Return(&domain.Worker{WorkerID: "worker-1"}, nil).Once()
	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-2").Return(&domain.Worker{WorkerID: "worker-2"}, nil).Once()
	suite.mockDispatchRepo.On("SaveJob", ctx, mock.AnythingOfType("domain.DispatchJob")).Return(nil).Once()
	suite.mockDispatchRepo.On("SaveJobTargets", ctx, mock.AnythingOfType("string"), []string{"worker-1", "worker-2"}).Return(nil).Once()

	job, err := suite.service.CreateDispatch(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(job.JobID)
	suite.Equal("QR_NOTIFICATION", job.Kind)
	suite.Equal(domain.DispatchPending, job.Status)
	suite.Equal(2, job.TotalCount)
	suite.Zero(job.ProcessedCount)
	suite.mockDispatchRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestCreateDispatch_UnknownTargetRejected() {
	ctx := context.Background()
	req := dto.CreateDispatchRequest{Kind: "QR_NOTIFICATION", WorkerIDs: []string{"worker-1", "worker-gone"}}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-1").Return(&domain.Worker{WorkerID: "worker-1"}, nil).Once()
	suite.mockWorkerRepo.On("FindWorkerByID", ctx, "worker-gone").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateDispatch(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "worker-gone")
	suite.mockDispatchRepo.AssertNotCalled(suite.T(), "SaveJob", mock.Anything, mock.Anything)
}

func (suite *DispatchServiceTestSuite) TestGetDispatch_NotFound() {
	ctx := context.Background()
	suite.mockDispatchRepo.On("FindJobByID", ctx, "job-gone").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetDispatch(ctx, "job-gone")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DispatchServiceTestSuite) TestCancelDispatch_Success() {
	ctx := context.Background()
	running := &domain.DispatchJob{JobID: "job-1", Status: domain.DispatchProcessing}

	suite.mockDispatchRepo.On("FindJobByID", ctx, "job-1").Return(running, nil).Once()
	suite.mockDispatchRepo.On("RequestCancel", ctx, "job-1", "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CancelDispatch(ctx, "job-1", "admin-1")

	suite.Require().NoError(err)
	suite.mockDispatchRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestCancelDispatch_TerminalJobRejected() {
	ctx := context.Background()
	done := &domain.DispatchJob{JobID: "job-1", Status: domain.DispatchCompleted}

	suite.mockDispatchRepo.On("FindJobByID", ctx, "job-1").Return(done, nil).Once()

	err := suite.service.CancelDispatch(ctx, "job-1", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJobFinished)
	suite.mockDispatchRepo.AssertNotCalled(suite.T(), "RequestCancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DispatchServiceTestSuite) TestCancelDispatch_LosesRaceToCompletion() {
	ctx := context.Background()
	running := &domain.DispatchJob{JobID: "job-1", Status: domain.DispatchProcessing}

	suite.mockDispatchRepo.On("FindJobByID", ctx, "job-1").Return(running, nil).Once()
	suite.mockDispatchRepo.On("RequestCancel", ctx, "job-1", "admin-1", mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	err := suite.service.CancelDispatch(ctx, "job-1", "admin-1")

	suite.ErrorIs(err, services.ErrJobFinished)
}

func (suite *DispatchServiceTestSuite) TestRunner_ProcessesJobToCompletion() {
	job := &domain.DispatchJob{JobID: "job-1", Kind: "QR_NOTIFICATION", Status: domain.DispatchProcessing, TotalCount: 3}
	targets := []string{"worker-1", "worker-2", "worker-3"}

	suite.mockDispatchRepo.On("ClaimNextPendingJob", mock.Anything, mock.AnythingOfType("time.Time")).Return(job, nil).Once()
	suite.mockDispatchRepo.On("ClaimNextPendingJob", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)
	suite.mockDispatchRepo.On("FindJobTargets", mock.Anything, "job-1").Return(targets, nil).Once()
	suite.mockDispatchRepo.On("FindJobByID", mock.Anything, "job-1").Return(job, nil)
	suite.mockDispatchRepo.On("UpdateJobProgress", mock.Anything, "job-1", mock.AnythingOfType("int"), mock.AnythingOfType("time.Time")).Return(nil)
	finished := make(chan struct{})
	suite.mockDispatchRepo.On("FinishJob", mock.Anything, "job-1", domain.DispatchCompleted, "", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(finished) }).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	runnerDone := make(chan struct{})
	go func() {
		suite.service.Run(ctx)
		close(runnerDone)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		suite.FailNow("runner never finished the job")
	}
	cancel()
	<-runnerDone

	suite.Equal(targets, suite.delivered)
	suite.mockDispatchRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestRunner_ObservesCancelBetweenBatches() {
	job := &domain.DispatchJob{JobID: "job-1", Kind: "QR_NOTIFICATION", Status: domain.DispatchProcessing, TotalCount: 4}
	targets := []string{"worker-1", "worker-2", "worker-3", "worker-4"}
	cancelled := &domain.DispatchJob{JobID: "job-1", Status: domain.DispatchProcessing, CancelRequested: true}

	suite.mockDispatchRepo.On("ClaimNextPendingJob", mock.Anything, mock.AnythingOfType("time.Time")).Return(job, nil).Once()
	suite.mockDispatchRepo.On("ClaimNextPendingJob", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)
	suite.mockDispatchRepo.On("FindJobTargets", mock.Anything, "job-1").Return(targets, nil).Once()
	// First batch runs clean; the flag is up by the second cancel check.
	suite.mockDispatchRepo.On("FindJobByID", mock.Anything, "job-1").Return(job, nil).Once()
	suite.mockDispatchRepo.On("FindJobByID", mock.Anything, "job-1").Return(cancelled, nil).Once()
	suite.mockDispatchRepo.On("UpdateJobProgress", mock.Anything, "job-1", 2, mock.AnythingOfType("time.Time")).Return(nil).Once()
	finished := make(chan struct{})
	suite.mockDispatchRepo.On("FinishJob", mock.Anything, "job-1", domain.DispatchCancelled, "", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(finished) }).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	runnerDone := make(chan struct{})
	go func() {
		suite.service.Run(ctx)
		close(runnerDone)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		suite.FailNow("runner never observed the cancel flag")
	}
	cancel()
	<-runnerDone

	suite.Equal([]string{"worker-1", "worker-2"}, suite.delivered)
	suite.mockDispatchRepo.AssertExpectations(suite.T())
}

func TestDispatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DispatchServiceTestSuite))
}

package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	portssvc "github.com/gatecrew/site_custody_app/internal/core/ports/services"
	"github.com/gatecrew/site_custody_app/internal/core/services"
)

type StatsServiceTestSuite struct {
	suite.Suite
	mockStatsRepo *MockStatsRepository
	service       portssvc.StatsSvcFacade
}

func (suite *StatsServiceTestSuite) SetupTest() {
	suite.mockStatsRepo = new(MockStatsRepository)
	suite.service = services.NewStatsService(suite.mockStatsRepo, time.UTC)
}

func (suite *StatsServiceTestSuite) TestOverview_AllCounters() {
	ctx := context.Background()

	suite.mockStatsRepo.On("CountVisitsByStatus", ctx, domain.VisitOnSite, (*string)(nil)).Return(12, nil).Once()
	suite.mockStatsRepo.On("CountCheckInsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), (*string)(nil)).Return(30, nil).Once()
	suite.mockStatsRepo.On("CountCheckOutsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), (*string)(nil)).Return(18, nil).Once()
	suite.mockStatsRepo.On("CountBorrowsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(7, nil).Once()
	suite.mockStatsRepo.On("CountOpenBorrows", ctx).Return(4, nil).Once()

	overview, err := suite.service.Overview(ctx, nil)

	suite.Require().NoError(err)
	suite.Equal(12, overview.OnSiteCount)
	suite.Equal(30, overview.EnteredToday)
	suite.Equal(18, overview.ExitedToday)
	suite.Equal(7, overview.BorrowedToday)
	suite.Equal(4, overview.PendingReturn)
	suite.Equal(time.Now().UTC().Format("2006-01-02"), overview.Day)
	suite.WithinDuration(time.Now().UTC(), overview.AsOf, time.Second)
}

func (suite *StatsServiceTestSuite) TestOverview_SiteFilterPassedThrough() {
	ctx := context.Background()
	siteID := "site-1"

	suite.mockStatsRepo.On("CountVisitsByStatus", ctx, domain.VisitOnSite, &siteID).Return(3, nil).Once()
	suite.mockStatsRepo.On("CountCheckInsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), &siteID).Return(5, nil).Once()
	suite.mockStatsRepo.On("CountCheckOutsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), &siteID).Return(2, nil).Once()
	suite.mockStatsRepo.On("CountBorrowsBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(1, nil).Once()
	suite.mockStatsRepo.On("CountOpenBorrows", ctx).Return(0, nil).Once()

	overview, err := suite.service.Overview(ctx, &siteID)

	suite.Require().NoError(err)
	suite.Equal(3, overview.OnSiteCount)
	suite.mockStatsRepo.AssertExpectations(suite.T())
}

func (suite *StatsServiceTestSuite) TestOverview_RepositoryFailure() {
	ctx := context.Background()
	suite.mockStatsRepo.On("CountVisitsByStatus", ctx, domain.VisitOnSite, (*string)(nil)).Return(0, errors.New("connection refused")).Once()

	_, err := suite.service.Overview(ctx, nil)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "on-site count")
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}

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
	"github.com/gatecrew/site_custody_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "gate_guard", Name: "Gate Guard", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("gate_guard", user.Username)
	suite.NotEqual("s3cret-pass", user.PasswordHash)
	suite.True(utils.CheckPasswordHash("s3cret-pass", user.PasswordHash))
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "gate_guard", Name: "Gate Guard", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Username: "gate_guard", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "gate_guard").Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, "gate_guard", "s3cret-pass")

	suite.Require().NoError(err)
	suite.Equal("user-1", authenticated.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Username: "gate_guard", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "gate_guard").Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, "gate_guard", "wrong-pass")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUsernameIndistinguishable() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "nobody", "whatever")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OwnAccountOnly() {
	ctx := context.Background()
	name := "New Name"

	_, err := suite.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Name: &name}, "user-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_Success() {
	ctx := context.Background()
	name := "New Name"
	existing := &domain.User{UserID: "user-1", Username: "gate_guard", Name: "Old Name"}

	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "user-1" && u.Name == "New Name" && u.LastUpdatedBy == "user-1"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Name: &name}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("New Name", updated.Name)
}

func (suite *UserServiceTestSuite) TestDeleteUser_OwnAccountOnly() {
	err := suite.service.DeleteUser(context.Background(), "user-1", "user-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", Username: "gate_guard"}

	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, "user-1", mock.AnythingOfType("time.Time"), "user-1").Return(nil).Once()

	err := suite.service.DeleteUser(ctx, "user-1", "user-1")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_DefaultsLimit() {
	ctx := context.Background()
	users := []domain.User{{UserID: "user-1"}}

	suite.mockUserRepo.On("FindUsers", ctx, 20, 0).Return(users, nil).Once()

	listed, err := suite.service.ListUsers(ctx, 0, -5)

	suite.Require().NoError(err)
	suite.Len(listed, 1)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

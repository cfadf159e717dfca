package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/core/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// --- Mock ChangeRequestRepository ---
type MockChangeRequestRepository struct {
	mock.Mock
}

func (m *MockChangeRequestRepository) FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) ListChangeRequests(ctx context.Context, status *domain.ChangeRequestStatus, limit int, offset int) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) SaveChangeRequest(ctx context.Context, request domain.ChangeRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) UpdateChangeRequestDecision(ctx context.Context, request domain.ChangeRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// --- Mock UserRepository ---
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

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
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

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite ---
type ApprovalServiceTestSuite struct {
	suite.Suite
	mockRequests *MockChangeRequestRepository
	mockCouriers *MockCourierRepository
	mockUsers    *MockUserRepository
	service      portssvc.ApprovalSvcFacade

	masterAdmin  *domain.User
	regularAdmin *domain.User
	courierUser  *domain.User
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockRequests = new(MockChangeRequestRepository)
	suite.mockCouriers = new(MockCourierRepository)
	suite.mockUsers = new(MockUserRepository)
	userSvc := services.NewUserService(suite.mockUsers)
	suite.service = services.NewApprovalService(suite.mockRequests, suite.mockCouriers, suite.mockUsers, userSvc)

	suite.masterAdmin = &domain.User{UserID: "master-1", Role: domain.RoleMasterAdmin}
	suite.regularAdmin = &domain.User{UserID: "regular-1", Role: domain.RoleRegularAdmin}
	suite.courierUser = &domain.User{UserID: "courier-user-1", Role: domain.RoleCourier}
}

func courierUpdatePayload(name string) json.RawMessage {
	payload, _ := json.Marshal(dto.CourierPayload{Name: &name})
	return payload
}

func (suite *ApprovalServiceTestSuite) TestSubmitRequest_RegularAdminStaysPending() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "regular-1").Return(suite.regularAdmin, nil).Once()
	suite.mockCouriers.On("FindCourierByID", ctx, "courier-9").
		Return(&domain.Courier{CourierID: "courier-9", IsActive: true}, nil).Once()
	suite.mockRequests.On("SaveChangeRequest", ctx, mock.MatchedBy(func(r domain.ChangeRequest) bool {
		return r.Status == domain.RequestPending && r.CreatedBy == "regular-1" && r.DecidedBy == ""
	})).Return(nil).Once()

	request, err := suite.service.SubmitRequest(ctx, "regular-1", dto.CreateChangeRequestRequest{
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionUpdate,
		Payload:    courierUpdatePayload("New Name"),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.RequestPending, request.Status)
	suite.mockCouriers.AssertNotCalled(suite.T(), "UpdateCourier", mock.Anything, mock.Anything)
	suite.mockRequests.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestSubmitRequest_MasterAdminAppliesImmediately() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "master-1").Return(suite.masterAdmin, nil).Once()
	suite.mockCouriers.On("FindCourierByID", ctx, "courier-9").
		Return(&domain.Courier{CourierID: "courier-9", Name: "Old Name", IsActive: true}, nil)
	suite.mockCouriers.On("UpdateCourier", ctx, mock.MatchedBy(func(c domain.Courier) bool {
		return c.Name == "New Name" && c.LastUpdatedBy == "master-1"
	})).Return(nil).Once()
	suite.mockRequests.On("SaveChangeRequest", ctx, mock.MatchedBy(func(r domain.ChangeRequest) bool {
		return r.Status == domain.RequestApproved && r.DecidedBy == "master-1" && r.DecidedAt != nil
	})).Return(nil).Once()

	request, err := suite.service.SubmitRequest(ctx, "master-1", dto.CreateChangeRequestRequest{
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionUpdate,
		Payload:    courierUpdatePayload("New Name"),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, request.Status)
	suite.mockCouriers.AssertExpectations(suite.T())
	suite.mockRequests.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestSubmitRequest_NonAdminForbidden() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "courier-user-1").Return(suite.courierUser, nil).Once()

	_, err := suite.service.SubmitRequest(ctx, "courier-user-1", dto.CreateChangeRequestRequest{
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionUpdate,
		Payload:    courierUpdatePayload("New Name"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotAdmin)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ApprovalServiceTestSuite) TestSubmitRequest_CreateCourierNeedsCode() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "regular-1").Return(suite.regularAdmin, nil).Once()
	name := "Budi"
	payload, _ := json.Marshal(dto.CourierPayload{Name: &name}) // no courierCode

	_, err := suite.service.SubmitRequest(ctx, "regular-1", dto.CreateChangeRequestRequest{
		TargetKind: domain.TargetCourier,
		Action:     domain.ActionCreate,
		Payload:    payload,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBadPayload)
}

func (suite *ApprovalServiceTestSuite) TestDecideRequest_ApproveAppliesDeactivate() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "master-1").Return(suite.masterAdmin, nil).Once()
	pending := &domain.ChangeRequest{
		RequestID:  "req-1",
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionDeactivate,
		Payload:    json.RawMessage(`{}`),
		Status:     domain.RequestPending,
	}
	suite.mockRequests.On("FindChangeRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockCouriers.On("FindCourierByID", ctx, "courier-9").
		Return(&domain.Courier{CourierID: "courier-9", IsActive: true}, nil).Once()
	suite.mockCouriers.On("UpdateCourier", ctx, mock.MatchedBy(func(c domain.Courier) bool {
		return !c.IsActive
	})).Return(nil).Once()
	suite.mockRequests.On("UpdateChangeRequestDecision", ctx, mock.MatchedBy(func(r domain.ChangeRequest) bool {
		return r.Status == domain.RequestApproved && r.DecidedBy == "master-1"
	})).Return(nil).Once()

	request, err := suite.service.DecideRequest(ctx, "master-1", "req-1", true, "ok")

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, request.Status)
	suite.mockCouriers.AssertExpectations(suite.T())
	suite.mockRequests.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestDecideRequest_CorruptStoredPayload() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "master-1").Return(suite.masterAdmin, nil).Once()
	pending := &domain.ChangeRequest{
		RequestID:  "req-1",
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionUpdate,
		Payload:    json.RawMessage(`{"name":`),
		Status:     domain.RequestPending,
	}
	suite.mockRequests.On("FindChangeRequestByID", ctx, "req-1").Return(pending, nil).Once()

	_, err := suite.service.DecideRequest(ctx, "master-1", "req-1", true, "ok")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.mockCouriers.AssertNotCalled(suite.T(), "UpdateCourier", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestDecideRequest_RejectLeavesTargetUntouched() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "master-1").Return(suite.masterAdmin, nil).Once()
	pending := &domain.ChangeRequest{
		RequestID:  "req-1",
		TargetKind: domain.TargetCourier,
		TargetID:   "courier-9",
		Action:     domain.ActionDeactivate,
		Payload:    json.RawMessage(`{}`),
		Status:     domain.RequestPending,
	}
	suite.mockRequests.On("FindChangeRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockRequests.On("UpdateChangeRequestDecision", ctx, mock.MatchedBy(func(r domain.ChangeRequest) bool {
		return r.Status == domain.RequestRejected && r.Note == "not needed"
	})).Return(nil).Once()

	request, err := suite.service.DecideRequest(ctx, "master-1", "req-1", false, "not needed")

	suite.Require().NoError(err)
	suite.Equal(domain.RequestRejected, request.Status)
	suite.mockCouriers.AssertNotCalled(suite.T(), "UpdateCourier", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestDecideRequest_AlreadyDecided() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "master-1").Return(suite.masterAdmin, nil).Once()
	decidedAt := time.Now()
	decided := &domain.ChangeRequest{
		RequestID: "req-1",
		Status:    domain.RequestApproved,
		DecidedBy: "master-1",
		DecidedAt: &decidedAt,
	}
	suite.mockRequests.On("FindChangeRequestByID", ctx, "req-1").Return(decided, nil).Once()

	_, err := suite.service.DecideRequest(ctx, "master-1", "req-1", true, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRequestDecided)
}

func (suite *ApprovalServiceTestSuite) TestDecideRequest_RegularAdminForbidden() {
	ctx := context.Background()
	suite.mockUsers.On("FindUserByID", ctx, "regular-1").Return(suite.regularAdmin, nil).Once()

	_, err := suite.service.DecideRequest(ctx, "regular-1", "req-1", true, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotMasterAdmin)
	suite.mockRequests.AssertNotCalled(suite.T(), "FindChangeRequestByID", mock.Anything, mock.Anything)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

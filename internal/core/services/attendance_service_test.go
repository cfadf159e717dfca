package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/core/services"
)

// --- Mock AttendanceRepository ---
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) FindAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error) {
	args := m.Called(ctx, courierID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ListAttendanceByCourier(ctx context.Context, courierID string, fromDay, toDay string, limit int) ([]domain.Attendance, error) {
	args := m.Called(ctx, courierID, fromDay, toDay, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ListCourierIDsWithAttendance(ctx context.Context, day string) ([]string, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAttendanceRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}

func (m *MockAttendanceRepository) UpdateAttendance(ctx context.Context, attendance domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}

// --- Mock CourierRepository ---
type MockCourierRepository struct {
	mock.Mock
}

func (m *MockCourierRepository) FindCourierByID(ctx context.Context, courierID string) (*domain.Courier, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Courier), args.Error(1)
}

func (m *MockCourierRepository) FindCourierByUserID(ctx context.Context, userID string) (*domain.Courier, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Courier), args.Error(1)
}

func (m *MockCourierRepository) ListCouriers(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.Courier, error) {
	args := m.Called(ctx, limit, offset, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Courier), args.Error(1)
}

func (m *MockCourierRepository) SaveCourier(ctx context.Context, courier domain.Courier) error {
	args := m.Called(ctx, courier)
	return args.Error(0)
}

func (m *MockCourierRepository) UpdateCourier(ctx context.Context, courier domain.Courier) error {
	args := m.Called(ctx, courier)
	return args.Error(0)
}

func (m *MockCourierRepository) FindPICByID(ctx context.Context, picID string) (*domain.PIC, error) {
	args := m.Called(ctx, picID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PIC), args.Error(1)
}

func (m *MockCourierRepository) ListPICs(ctx context.Context, limit int, offset int) ([]domain.PIC, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PIC), args.Error(1)
}

func (m *MockCourierRepository) SavePIC(ctx context.Context, pic domain.PIC) error {
	args := m.Called(ctx, pic)
	return args.Error(0)
}

func (m *MockCourierRepository) UpdatePIC(ctx context.Context, pic domain.PIC) error {
	args := m.Called(ctx, pic)
	return args.Error(0)
}

// --- Test Suite ---
type AttendanceServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAttendanceRepository
	mockCourier *MockCourierRepository
	service     portssvc.AttendanceSvcFacade

	courierID string
}

func (suite *AttendanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAttendanceRepository)
	suite.mockCourier = new(MockCourierRepository)
	suite.service = services.NewAttendanceService(suite.mockRepo, suite.mockCourier)
	suite.courierID = "courier-1"
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_BeforeCutoffIsOnTime() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 8, 59, 0, 0, time.UTC)

	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.CourierID == suite.courierID &&
			a.Day == "2025-03-14" &&
			a.Status == domain.AttendanceOnTime &&
			a.CheckInAt != nil
	})).Return(nil).Once()

	attendance, err := suite.service.CheckIn(ctx, suite.courierID, now)

	suite.Require().NoError(err)
	suite.Equal(domain.AttendanceOnTime, attendance.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_AtCutoffIsLate() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.Status == domain.AttendanceLate
	})).Return(nil).Once()

	attendance, err := suite.service.CheckIn(ctx, suite.courierID, now)

	suite.Require().NoError(err)
	suite.Equal(domain.AttendanceLate, attendance.Status)
}

func (suite *AttendanceServiceTestSuite) TestCheckIn_Duplicate() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	checkInAt := now.Add(-time.Hour)
	existing := &domain.Attendance{
		AttendanceID: "att-1",
		CourierID:    suite.courierID,
		Day:          "2025-03-14",
		CheckInAt:    &checkInAt,
		Status:       domain.AttendanceOnTime,
	}
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(existing, nil).Once()

	_, err := suite.service.CheckIn(ctx, suite.courierID, now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyCheckedIn)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAttendance", mock.Anything, mock.Anything)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_WithoutCheckIn() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CheckOut(ctx, suite.courierID, now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCheckInRequired)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_Twice() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	checkInAt := now.Add(-10 * time.Hour)
	checkOutAt := now.Add(-time.Hour)
	existing := &domain.Attendance{
		AttendanceID: "att-1",
		CourierID:    suite.courierID,
		Day:          "2025-03-14",
		CheckInAt:    &checkInAt,
		CheckOutAt:   &checkOutAt,
		Status:       domain.AttendanceOnTime,
	}
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(existing, nil).Once()

	_, err := suite.service.CheckOut(ctx, suite.courierID, now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyCheckedOut)
}

func (suite *AttendanceServiceTestSuite) TestCheckOut_Success() {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)
	checkInAt := now.Add(-9 * time.Hour)
	existing := &domain.Attendance{
		AttendanceID: "att-1",
		CourierID:    suite.courierID,
		Day:          "2025-03-14",
		CheckInAt:    &checkInAt,
		Status:       domain.AttendanceOnTime,
	}
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.CheckOutAt != nil && a.CheckOutAt.Equal(now)
	})).Return(nil).Once()

	attendance, err := suite.service.CheckOut(ctx, suite.courierID, now)

	suite.Require().NoError(err)
	suite.NotNil(attendance.CheckOutAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestIsCheckedIn_NoRecord() {
	ctx := context.Background()
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(nil, apperrors.ErrNotFound).Once()

	checkedIn, err := suite.service.IsCheckedIn(ctx, suite.courierID, "2025-03-14")

	suite.Require().NoError(err)
	suite.False(checkedIn)
}

func (suite *AttendanceServiceTestSuite) TestIsCheckedIn_AbsentRecordDoesNotCount() {
	ctx := context.Background()
	existing := &domain.Attendance{
		AttendanceID: "att-1",
		CourierID:    suite.courierID,
		Day:          "2025-03-14",
		Status:       domain.AttendanceAbsent,
	}
	suite.mockRepo.On("FindAttendance", ctx, suite.courierID, "2025-03-14").Return(existing, nil).Once()

	checkedIn, err := suite.service.IsCheckedIn(ctx, suite.courierID, "2025-03-14")

	suite.Require().NoError(err)
	suite.False(checkedIn)
}

func (suite *AttendanceServiceTestSuite) TestMarkAbsentees() {
	ctx := context.Background()
	day := "2025-03-14"
	couriers := []domain.Courier{
		{CourierID: "courier-1", IsActive: true},
		{CourierID: "courier-2", IsActive: true},
		{CourierID: "courier-3", IsActive: true},
	}
	suite.mockCourier.On("ListCouriers", ctx, 1000, 0, true).Return(couriers, nil).Once()
	suite.mockRepo.On("ListCourierIDsWithAttendance", ctx, day).Return([]string{"courier-2"}, nil).Once()
	suite.mockRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.Status == domain.AttendanceAbsent && a.Day == day &&
			(a.CourierID == "courier-1" || a.CourierID == "courier-3")
	})).Return(nil).Twice()

	marked, err := suite.service.MarkAbsentees(ctx, day)

	suite.Require().NoError(err)
	suite.Equal(2, marked)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestMarkAbsentees_PagesThroughAllCouriers() {
	ctx := context.Background()
	day := "2025-03-14"

	firstPage := make([]domain.Courier, 1000)
	for i := range firstPage {
		firstPage[i] = domain.Courier{CourierID: fmt.Sprintf("courier-%d", i), IsActive: true}
	}
	secondPage := []domain.Courier{{CourierID: "courier-1000", IsActive: true}}

	suite.mockCourier.On("ListCouriers", ctx, 1000, 0, true).Return(firstPage, nil).Once()
	suite.mockCourier.On("ListCouriers", ctx, 1000, 1000, true).Return(secondPage, nil).Once()
	suite.mockRepo.On("ListCourierIDsWithAttendance", ctx, day).Return([]string{}, nil).Once()
	suite.mockRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.Status == domain.AttendanceAbsent && a.Day == day
	})).Return(nil).Times(1001)

	marked, err := suite.service.MarkAbsentees(ctx, day)

	suite.Require().NoError(err)
	suite.Equal(1001, marked)
	suite.mockCourier.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

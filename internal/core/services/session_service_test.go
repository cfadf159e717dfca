package services_test

import (
	"context"
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

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error) {
	args := m.Called(ctx, courierID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliverySession), args.Error(1)
}

func (m *MockSessionRepository) ListUnfinalizedSessions(ctx context.Context, day string) ([]domain.DeliverySession, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliverySession), args.Error(1)
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.DeliverySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateManifest(ctx context.Context, session domain.DeliverySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) InsertParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error {
	args := m.Called(ctx, sessionID, parcel)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error {
	args := m.Called(ctx, sessionID, parcel)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteParcel(ctx context.Context, sessionID string, trackingNumber string) error {
	args := m.Called(ctx, sessionID, trackingNumber)
	return args.Error(0)
}

func (m *MockSessionRepository) FinalizeSession(ctx context.Context, session domain.DeliverySession, summary domain.DailySummary) error {
	args := m.Called(ctx, session, summary)
	return args.Error(0)
}

// --- Mock AttendanceReader ---
type MockAttendanceReader struct {
	mock.Mock
}

func (m *MockAttendanceReader) IsCheckedIn(ctx context.Context, courierID string, day string) (bool, error) {
	args := m.Called(ctx, courierID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceReader) GetAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error) {
	args := m.Called(ctx, courierID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceReader) ListAttendance(ctx context.Context, courierID string, params dto.ListAttendanceParams) ([]domain.Attendance, error) {
	args := m.Called(ctx, courierID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

// --- Mock StatsCacheInvalidator ---
type MockStatsInvalidator struct {
	mock.Mock
}

func (m *MockStatsInvalidator) InvalidateCourier(ctx context.Context, courierID string) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

// --- Test Suite ---
type SessionServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockSessionRepository
	mockAttendance *MockAttendanceReader
	mockStats      *MockStatsInvalidator
	service        portssvc.SessionSvcFacade

	courierID string
	now       time.Time
	day       string
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSessionRepository)
	suite.mockAttendance = new(MockAttendanceReader)
	suite.mockStats = new(MockStatsInvalidator)
	suite.service = services.NewSessionService(suite.mockRepo, suite.mockAttendance, suite.mockStats)

	suite.courierID = "courier-1"
	suite.now = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	suite.day = "2025-03-14"
}

func (suite *SessionServiceTestSuite) expectCheckedIn(checkedIn bool) {
	suite.mockAttendance.On("IsCheckedIn", mock.Anything, suite.courierID, suite.day).Return(checkedIn, nil)
}

// sessionWith builds a session with a submitted manifest of the given total
// and the given parcels.
func (suite *SessionServiceTestSuite) sessionWith(total int, parcels []domain.Parcel) *domain.DeliverySession {
	submittedAt := suite.now.Add(-2 * time.Hour)
	return &domain.DeliverySession{
		SessionID: "session-1",
		CourierID: suite.courierID,
		Day:       suite.day,
		Manifest: domain.Manifest{
			TotalDeclared:  total,
			CODDeclared:    0,
			NonCODDeclared: total,
			Submitted:      true,
			SubmittedAt:    &submittedAt,
		},
		Parcels: parcels,
	}
}

func parcels(statuses ...domain.ParcelStatus) []domain.Parcel {
	out := make([]domain.Parcel, len(statuses))
	for i, st := range statuses {
		out[i] = domain.Parcel{
			TrackingNumber: "RESI-" + string(rune('A'+i)),
			Status:         st,
			ProofPhotoURL:  "https://photos.example/proof.jpg",
			RecipientName:  "Recipient",
		}
	}
	return out
}

// --- SubmitManifest ---

func (suite *SessionServiceTestSuite) TestSubmitManifest_Success() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveSession", ctx, mock.MatchedBy(func(s domain.DeliverySession) bool {
		return s.CourierID == suite.courierID &&
			s.Day == suite.day &&
			s.Manifest.Submitted &&
			s.Manifest.TotalDeclared == 10 &&
			s.Manifest.CODDeclared == 4 &&
			s.Manifest.NonCODDeclared == 6
	})).Return(nil).Once()

	session, err := suite.service.SubmitManifest(ctx, suite.courierID, suite.now, dto.SubmitManifestRequest{
		TotalDeclared: 10, CODDeclared: 4, NonCODDeclared: 6,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.True(session.Manifest.Submitted)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestSubmitManifest_NotCheckedIn() {
	ctx := context.Background()
	suite.expectCheckedIn(false)

	session, err := suite.service.SubmitManifest(ctx, suite.courierID, suite.now, dto.SubmitManifestRequest{
		TotalDeclared: 10, CODDeclared: 4, NonCODDeclared: 6,
	})

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, services.ErrAttendanceRequired)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestSubmitManifest_CountMismatch() {
	ctx := context.Background()
	suite.expectCheckedIn(true)

	_, err := suite.service.SubmitManifest(ctx, suite.courierID, suite.now, dto.SubmitManifestRequest{
		TotalDeclared: 10, CODDeclared: 4, NonCODDeclared: 5,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrManifestCountMismatch)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SessionServiceTestSuite) TestSubmitManifest_ZeroTotal() {
	ctx := context.Background()
	suite.expectCheckedIn(true)

	_, err := suite.service.SubmitManifest(ctx, suite.courierID, suite.now, dto.SubmitManifestRequest{
		TotalDeclared: 0, CODDeclared: 0, NonCODDeclared: 0,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrManifestZeroTotal)
}

func (suite *SessionServiceTestSuite) TestSubmitManifest_AlreadySubmitted() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(5, nil)
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.SubmitManifest(ctx, suite.courierID, suite.now, dto.SubmitManifestRequest{
		TotalDeclared: 5, CODDeclared: 0, NonCODDeclared: 5,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrManifestAlreadySubmitted)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- ReviseManifest ---

func (suite *SessionServiceTestSuite) TestReviseManifest_KeepsParcels() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(3, parcels(domain.ParcelProcessing, domain.ParcelProcessing))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateManifest", ctx, mock.MatchedBy(func(s domain.DeliverySession) bool {
		return !s.Manifest.Submitted && len(s.Parcels) == 2
	})).Return(nil).Once()

	session, err := suite.service.ReviseManifest(ctx, suite.courierID, suite.now)

	suite.Require().NoError(err)
	suite.False(session.Manifest.Submitted)
	suite.Len(session.Parcels, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- RegisterParcel ---

func (suite *SessionServiceTestSuite) TestRegisterParcel_NormalizesTrackingNumber() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(3, nil)
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("InsertParcel", ctx, existing.SessionID, mock.MatchedBy(func(p domain.Parcel) bool {
		return p.TrackingNumber == "JX-001" && p.Status == domain.ParcelProcessing && p.IsCOD
	})).Return(nil).Once()

	parcel, err := suite.service.RegisterParcel(ctx, suite.courierID, suite.now, dto.RegisterParcelRequest{
		TrackingNumber: "  jx-001 ", IsCOD: true,
	})

	suite.Require().NoError(err)
	suite.Equal("JX-001", parcel.TrackingNumber)
	suite.Equal(domain.ParcelProcessing, parcel.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestRegisterParcel_Duplicate() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(3, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelProcessing}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.RegisterParcel(ctx, suite.courierID, suite.now, dto.RegisterParcelRequest{
		TrackingNumber: "jx-001",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateTrackingNumber)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertParcel", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestRegisterParcel_RegistryFull() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, parcels(domain.ParcelProcessing, domain.ParcelProcessing))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.RegisterParcel(ctx, suite.courierID, suite.now, dto.RegisterParcelRequest{
		TrackingNumber: "JX-003",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRegistryFull)
	suite.ErrorIs(err, apperrors.ErrCapacityExceeded)
}

func (suite *SessionServiceTestSuite) TestRegisterParcel_ManifestNotSubmitted() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(3, nil)
	existing.Manifest.Submitted = false
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.RegisterParcel(ctx, suite.courierID, suite.now, dto.RegisterParcelRequest{
		TrackingNumber: "JX-001",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrManifestRequired)
}

// --- RemoveParcel ---

func (suite *SessionServiceTestSuite) TestRemoveParcel_Success() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelOutForDelivery}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("DeleteParcel", ctx, existing.SessionID, "JX-001").Return(nil).Once()

	err := suite.service.RemoveParcel(ctx, suite.courierID, suite.now, "jx-001")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestRemoveParcel_NotFound() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, nil)
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	err := suite.service.RemoveParcel(ctx, suite.courierID, suite.now, "JX-404")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParcelNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Transition ---

func (suite *SessionServiceTestSuite) TestTransition_OutForDelivery() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, []domain.Parcel{
		{TrackingNumber: "JX-001", Status: domain.ParcelProcessing},
		{TrackingNumber: "JX-002", Status: domain.ParcelProcessing},
	})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateParcel", ctx, existing.SessionID, mock.MatchedBy(func(p domain.Parcel) bool {
		return p.TrackingNumber == "JX-001" && p.Status == domain.ParcelOutForDelivery
	})).Return(nil).Once()

	parcel, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001", TargetStatus: domain.ParcelOutForDelivery,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.ParcelOutForDelivery, parcel.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestTransition_IllegalEdge() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(1, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelProcessing}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001", TargetStatus: domain.ParcelDelivered,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrIllegalTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateParcel", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestTransition_DeliveredLockedWhileRegistryShort() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	// Declared 3, only 1 scanned: delivery actions stay locked.
	existing := suite.sessionWith(3, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelOutForDelivery}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001",
		TargetStatus:   domain.ParcelDelivered,
		RecipientName:  "Budi",
		ProofPhotoURL:  "https://photos.example/1.jpg",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDeliveryActionsLocked)
}

func (suite *SessionServiceTestSuite) TestTransition_DeliveredRequiresRecipientAndProof() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(1, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelOutForDelivery}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001",
		TargetStatus:   domain.ParcelDelivered,
		RecipientName:  "Budi", // no proof photo
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRecipientAndProofRequired)
}

func (suite *SessionServiceTestSuite) TestTransition_DeliveredSuccess() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(1, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelOutForDelivery}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateParcel", ctx, existing.SessionID, mock.MatchedBy(func(p domain.Parcel) bool {
		return p.Status == domain.ParcelDelivered && p.RecipientName == "Budi" && p.ProofPhotoURL != ""
	})).Return(nil).Once()

	parcel, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001",
		TargetStatus:   domain.ParcelDelivered,
		RecipientName:  "Budi",
		ProofPhotoURL:  "https://photos.example/1.jpg",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.ParcelDelivered, parcel.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestTransition_ReturnedRequiresProof() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(1, []domain.Parcel{{TrackingNumber: "JX-001", Status: domain.ParcelFailed}})
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.Transition(ctx, suite.courierID, suite.now, dto.TransitionRequest{
		TrackingNumber: "JX-001", TargetStatus: domain.ParcelReturned,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrProofRequired)
}

// --- FinalizeDay ---

func (suite *SessionServiceTestSuite) TestFinalizeDay_SeventyPercent() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(10, parcels(
		domain.ParcelDelivered, domain.ParcelDelivered, domain.ParcelDelivered,
		domain.ParcelDelivered, domain.ParcelDelivered, domain.ParcelDelivered,
		domain.ParcelDelivered,
		domain.ParcelReturned, domain.ParcelReturned, domain.ParcelReturned,
	))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()
	suite.mockRepo.On("FinalizeSession", ctx, mock.MatchedBy(func(s domain.DeliverySession) bool {
		return s.Finalized
	}), mock.MatchedBy(func(sum domain.DailySummary) bool {
		return sum.PackagesCarried == 10 &&
			sum.PackagesDelivered == 7 &&
			sum.PackagesFailedOrReturned == 3 &&
			sum.SuccessRate.String() == "70"
	})).Return(nil).Once()
	suite.mockStats.On("InvalidateCourier", ctx, suite.courierID).Return(nil).Once()

	summary, err := suite.service.FinalizeDay(ctx, suite.courierID, suite.now)

	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	suite.Equal(10, summary.PackagesCarried)
	suite.Equal("70", summary.SuccessRate.String())
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockStats.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestFinalizeDay_RegistryShort() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(5, parcels(domain.ParcelDelivered, domain.ParcelDelivered))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.FinalizeDay(ctx, suite.courierID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRegistryIncomplete)
	suite.mockRepo.AssertNotCalled(suite.T(), "FinalizeSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestFinalizeDay_ParcelsStillInProgress() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, parcels(domain.ParcelDelivered, domain.ParcelOutForDelivery))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.FinalizeDay(ctx, suite.courierID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParcelsUnresolved)
}

func (suite *SessionServiceTestSuite) TestFinalizeDay_UnresolvedReturns() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	existing := suite.sessionWith(2, parcels(domain.ParcelDelivered, domain.ParcelFailed))
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(existing, nil).Once()

	_, err := suite.service.FinalizeDay(ctx, suite.courierID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReturnsUnresolved)
}

func (suite *SessionServiceTestSuite) TestFinalizeDay_NoSession() {
	ctx := context.Background()
	suite.expectCheckedIn(true)
	suite.mockRepo.On("FindSession", ctx, suite.courierID, suite.day).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.FinalizeDay(ctx, suite.courierID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrManifestRequired)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}

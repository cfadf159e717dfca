package jobs_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/KurirHub/courier_management_app/internal/jobs"
)

type MockAttendanceWriter struct {
	mock.Mock
}

func (m *MockAttendanceWriter) CheckIn(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error) {
	args := m.Called(ctx, courierID, now)
	att, _ := args.Get(0).(*domain.Attendance)
	return att, args.Error(1)
}

func (m *MockAttendanceWriter) CheckOut(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error) {
	args := m.Called(ctx, courierID, now)
	att, _ := args.Get(0).(*domain.Attendance)
	return att, args.Error(1)
}

func (m *MockAttendanceWriter) MarkAbsentees(ctx context.Context, day string) (int, error) {
	args := m.Called(ctx, day)
	return args.Int(0), args.Error(1)
}

type MockSessionReader struct {
	mock.Mock
}

func (m *MockSessionReader) FindSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error) {
	args := m.Called(ctx, courierID, day)
	session, _ := args.Get(0).(*domain.DeliverySession)
	return session, args.Error(1)
}

func (m *MockSessionReader) ListUnfinalizedSessions(ctx context.Context, day string) ([]domain.DeliverySession, error) {
	args := m.Called(ctx, day)
	sessions, _ := args.Get(0).([]domain.DeliverySession)
	return sessions, args.Error(1)
}

func sweepTask(t *testing.T, day string) *asynq.Task {
	t.Helper()
	task, err := jobs.NewNightlySweepTask(day)
	require.NoError(t, err)
	return task
}

func TestHandleNightlySweep(t *testing.T) {
	attendance := new(MockAttendanceWriter)
	sessions := new(MockSessionReader)
	handler := jobs.NewSweepHandler(attendance, sessions, slog.Default())

	attendance.On("MarkAbsentees", mock.Anything, "2025-03-14").Return(2, nil)
	sessions.On("ListUnfinalizedSessions", mock.Anything, "2025-03-14").Return([]domain.DeliverySession{
		{SessionID: "s1", CourierID: "courier-1", Day: "2025-03-14"},
	}, nil)

	err := handler.HandleNightlySweep(context.Background(), sweepTask(t, "2025-03-14"))
	require.NoError(t, err)
	attendance.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestHandleNightlySweep_EmptyDayDefaultsToToday(t *testing.T) {
	attendance := new(MockAttendanceWriter)
	sessions := new(MockSessionReader)
	handler := jobs.NewSweepHandler(attendance, sessions, slog.Default())

	today := domain.DayOf(time.Now())
	attendance.On("MarkAbsentees", mock.Anything, today).Return(0, nil)
	sessions.On("ListUnfinalizedSessions", mock.Anything, today).Return([]domain.DeliverySession(nil), nil)

	err := handler.HandleNightlySweep(context.Background(), sweepTask(t, ""))
	require.NoError(t, err)
	attendance.AssertExpectations(t)
}

func TestHandleNightlySweep_BadPayload(t *testing.T) {
	handler := jobs.NewSweepHandler(new(MockAttendanceWriter), new(MockSessionReader), slog.Default())

	err := handler.HandleNightlySweep(context.Background(), asynq.NewTask(jobs.TypeNightlySweep, []byte("{not json")))
	require.Error(t, err)
	var syntaxErr *json.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

var (
	// ErrAttendanceRequired gates every mutating session operation.
	ErrAttendanceRequired = fmt.Errorf("%w: attendance required", apperrors.ErrPrecondition)
	// ErrAlreadyCheckedIn is returned on a duplicate check-in for the same day.
	ErrAlreadyCheckedIn = fmt.Errorf("%w: already checked in today", apperrors.ErrDuplicate)
	// ErrAlreadyCheckedOut is returned when today's check-out was already recorded.
	ErrAlreadyCheckedOut = fmt.Errorf("%w: already checked out today", apperrors.ErrDuplicate)
	// ErrCheckInRequired is returned when checking out without a prior check-in.
	ErrCheckInRequired = fmt.Errorf("%w: check-in required before check-out", apperrors.ErrPrecondition)
)

// sweepActor is recorded as the author of attendance rows written by the
// nightly sweep rather than by a user.
const sweepActor = "system:sweeper"

// attendanceService implements the attendance gate and check-in/out rules.
type attendanceService struct {
	BaseService
	attendanceRepo portsrepo.AttendanceRepositoryFacade
	courierRepo    portsrepo.CourierRepositoryFacade
}

// NewAttendanceService creates a new attendance service.
func NewAttendanceService(attendanceRepo portsrepo.AttendanceRepositoryFacade, courierRepo portsrepo.CourierRepositoryFacade) portssvc.AttendanceSvcFacade {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		courierRepo:    courierRepo,
	}
}

var _ portssvc.AttendanceSvcFacade = (*attendanceService)(nil)

// IsCheckedIn reports whether the courier has checked in on the given day.
func (s *attendanceService) IsCheckedIn(ctx context.Context, courierID string, day string) (bool, error) {
	attendance, err := s.attendanceRepo.FindAttendance(ctx, courierID, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to read attendance", slog.String("courier_id", courierID), slog.String("day", day))
		return false, err
	}
	return attendance.CheckedIn(), nil
}

// GetAttendance retrieves the attendance record for a courier on a day.
func (s *attendanceService) GetAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error) {
	attendance, err := s.attendanceRepo.FindAttendance(ctx, courierID, day)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read attendance", slog.String("courier_id", courierID), slog.String("day", day))
		}
		return nil, err
	}
	return attendance, nil
}

// ListAttendance retrieves a courier's attendance history, newest first.
func (s *attendanceService) ListAttendance(ctx context.Context, courierID string, params dto.ListAttendanceParams) ([]domain.Attendance, error) {
	records, err := s.attendanceRepo.ListAttendanceByCourier(ctx, courierID, params.FromDay, params.ToDay, params.Limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list attendance", slog.String("courier_id", courierID))
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// CheckIn creates today's attendance record. At most one record may exist per
// (courier, day); a second check-in fails.
func (s *attendanceService) CheckIn(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error) {
	day := domain.DayOf(now)

	existing, err := s.attendanceRepo.FindAttendance(ctx, courierID, day)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read attendance for check-in", slog.String("courier_id", courierID))
		return nil, err
	}
	if existing.CheckedIn() {
		return nil, ErrAlreadyCheckedIn
	}

	checkInAt := now
	attendance := domain.Attendance{
		AttendanceID: uuid.NewString(),
		CourierID:    courierID,
		Day:          day,
		CheckInAt:    &checkInAt,
		Status:       domain.ClassifyCheckIn(now),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     courierID,
			LastUpdatedAt: now,
			LastUpdatedBy: courierID,
		},
	}

	if err := s.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		s.LogError(ctx, err, "Failed to save check-in", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	s.LogInfo(ctx, "Courier checked in",
		slog.String("courier_id", courierID),
		slog.String("day", day),
		slog.String("status", string(attendance.Status)))
	return &attendance, nil
}

// CheckOut sets the check-out time on today's record, once.
func (s *attendanceService) CheckOut(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error) {
	day := domain.DayOf(now)

	attendance, err := s.attendanceRepo.FindAttendance(ctx, courierID, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrCheckInRequired
		}
		s.LogError(ctx, err, "Failed to read attendance for check-out", slog.String("courier_id", courierID))
		return nil, err
	}
	if !attendance.CheckedIn() {
		return nil, ErrCheckInRequired
	}
	if attendance.CheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}

	checkOutAt := now
	attendance.CheckOutAt = &checkOutAt
	attendance.LastUpdatedAt = now
	attendance.LastUpdatedBy = courierID

	if err := s.attendanceRepo.UpdateAttendance(ctx, *attendance); err != nil {
		s.LogError(ctx, err, "Failed to save check-out", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, fmt.Errorf("failed to save check-out: %w", err)
	}

	s.LogInfo(ctx, "Courier checked out", slog.String("courier_id", courierID), slog.String("day", day))
	return attendance, nil
}

// MarkAbsentees records Absent for active couriers without any attendance on
// the given day. Used by the nightly sweep.
func (s *attendanceService) MarkAbsentees(ctx context.Context, day string) (int, error) {
	const pageSize = 1000
	var couriers []domain.Courier
	for offset := 0; ; offset += pageSize {
		page, err := s.courierRepo.ListCouriers(ctx, pageSize, offset, true)
		if err != nil {
			s.LogError(ctx, err, "Failed to list couriers for absence sweep", slog.String("day", day))
			return 0, fmt.Errorf("failed to list couriers: %w", err)
		}
		couriers = append(couriers, page...)
		if len(page) < pageSize {
			break
		}
	}

	presentIDs, err := s.attendanceRepo.ListCourierIDsWithAttendance(ctx, day)
	if err != nil {
		s.LogError(ctx, err, "Failed to list attendance for absence sweep", slog.String("day", day))
		return 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	present := make(map[string]bool, len(presentIDs))
	for _, id := range presentIDs {
		present[id] = true
	}

	now := time.Now()
	marked := 0
	for i := range couriers {
		if present[couriers[i].CourierID] {
			continue
		}
		absent := domain.Attendance{
			AttendanceID: uuid.NewString(),
			CourierID:    couriers[i].CourierID,
			Day:          day,
			Status:       domain.AttendanceAbsent,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     sweepActor,
				LastUpdatedAt: now,
				LastUpdatedBy: sweepActor,
			},
		}
		if err := s.attendanceRepo.SaveAttendance(ctx, absent); err != nil {
			s.LogError(ctx, err, "Failed to mark courier absent",
				slog.String("courier_id", couriers[i].CourierID), slog.String("day", day))
			return marked, fmt.Errorf("failed to mark courier %s absent: %w", couriers[i].CourierID, err)
		}
		marked++
	}

	s.LogInfo(ctx, "Absence sweep completed", slog.String("day", day), slog.Int("marked", marked))
	return marked, nil
}

package services

import (
	"context"
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// AttendanceReaderSvc defines read operations for attendance data
type AttendanceReaderSvc interface {
	// IsCheckedIn reports whether the courier has checked in on the given day.
	IsCheckedIn(ctx context.Context, courierID string, day string) (bool, error)

	// GetAttendance retrieves the attendance record for a courier on a day.
	GetAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error)

	// ListAttendance retrieves a courier's attendance history, newest first.
	ListAttendance(ctx context.Context, courierID string, params dto.ListAttendanceParams) ([]domain.Attendance, error)
}

// AttendanceWriterSvc defines the check-in/check-out operations
type AttendanceWriterSvc interface {
	// CheckIn creates today's attendance record, classifying it against the cutoff.
	CheckIn(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error)

	// CheckOut sets the check-out time on today's record.
	CheckOut(ctx context.Context, courierID string, now time.Time) (*domain.Attendance, error)

	// MarkAbsentees records Absent for every active courier without an
	// attendance record on the given day. Returns how many were marked.
	MarkAbsentees(ctx context.Context, day string) (int, error)
}

// AttendanceSvcFacade combines all attendance-related service interfaces
type AttendanceSvcFacade interface {
	AttendanceReaderSvc
	AttendanceWriterSvc
}

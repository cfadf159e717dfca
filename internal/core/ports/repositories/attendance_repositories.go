package repositories

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// AttendanceReader defines read operations for attendance data
type AttendanceReader interface {
	// FindAttendance retrieves the attendance record for a courier on a day.
	FindAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error)

	// ListAttendanceByCourier retrieves attendance records for a courier in a day range, newest first.
	ListAttendanceByCourier(ctx context.Context, courierID string, fromDay, toDay string, limit int) ([]domain.Attendance, error)

	// ListCourierIDsWithAttendance returns the courier IDs that have an attendance record for a day.
	ListCourierIDsWithAttendance(ctx context.Context, day string) ([]string, error)
}

// AttendanceWriter defines write operations for attendance data
type AttendanceWriter interface {
	// SaveAttendance persists a new attendance record.
	SaveAttendance(ctx context.Context, attendance domain.Attendance) error

	// UpdateAttendance updates an existing attendance record (check-out, status).
	UpdateAttendance(ctx context.Context, attendance domain.Attendance) error
}

// AttendanceRepositoryFacade combines all attendance-related repository interfaces
type AttendanceRepositoryFacade interface {
	AttendanceReader
	AttendanceWriter
}

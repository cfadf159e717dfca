package dto

import (
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// ListAttendanceParams defines query parameters for attendance history.
type ListAttendanceParams struct {
	FromDay string `form:"from" binding:"omitempty,daykey"` // Inclusive; empty means unbounded
	ToDay   string `form:"to" binding:"omitempty,daykey"`   // Inclusive; empty means unbounded
	Limit   int    `form:"limit,default=31"`
}

// AttendanceResponse is the API representation of an attendance record.
type AttendanceResponse struct {
	AttendanceID string                  `json:"attendanceID"`
	CourierID    string                  `json:"courierID"`
	Day          string                  `json:"day"`
	CheckInAt    *time.Time              `json:"checkInAt,omitempty"`
	CheckOutAt   *time.Time              `json:"checkOutAt,omitempty"`
	Status       domain.AttendanceStatus `json:"status"`
}

// ToAttendanceResponse converts a domain.Attendance to its DTO.
func ToAttendanceResponse(a *domain.Attendance) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: a.AttendanceID,
		CourierID:    a.CourierID,
		Day:          a.Day,
		CheckInAt:    a.CheckInAt,
		CheckOutAt:   a.CheckOutAt,
		Status:       a.Status,
	}
}

// ListAttendanceResponse wraps a courier's attendance history.
type ListAttendanceResponse struct {
	Records []AttendanceResponse `json:"records"`
}

// ToListAttendanceResponse converts attendance records to the list DTO.
func ToListAttendanceResponse(records []domain.Attendance) ListAttendanceResponse {
	out := make([]AttendanceResponse, len(records))
	for i := range records {
		out[i] = ToAttendanceResponse(&records[i])
	}
	return ListAttendanceResponse{Records: out}
}

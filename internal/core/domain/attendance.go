package domain

import "time"

// AttendanceStatus classifies a courier's attendance for a calendar day.
type AttendanceStatus string

const (
	AttendanceOnTime AttendanceStatus = "ON_TIME"
	AttendanceLate   AttendanceStatus = "LATE"
	AttendanceAbsent AttendanceStatus = "ABSENT"
)

// CheckInCutoffHour is the local hour before which a check-in counts as on time.
const CheckInCutoffHour = 9

// Attendance is a courier's attendance record for one calendar day.
// At most one record exists per (courier, day); it is created on check-in,
// mutated once on check-out and never deleted.
type Attendance struct {
	AttendanceID string           `json:"attendanceID"` // Primary Key (UUID)
	CourierID    string           `json:"courierID"`    // FK -> couriers.courier_id
	Day          string           `json:"day"`          // Calendar day key, DayFormat
	CheckInAt    *time.Time       `json:"checkInAt,omitempty"`
	CheckOutAt   *time.Time       `json:"checkOutAt,omitempty"`
	Status       AttendanceStatus `json:"status"`
	AuditFields
}

// ClassifyCheckIn derives the attendance status from the check-in instant:
// strictly before the cutoff hour is on time, anything later is late.
func ClassifyCheckIn(at time.Time) AttendanceStatus {
	cutoff := time.Date(at.Year(), at.Month(), at.Day(), CheckInCutoffHour, 0, 0, 0, at.Location())
	if at.Before(cutoff) {
		return AttendanceOnTime
	}
	return AttendanceLate
}

// CheckedIn reports whether a check-in time is present.
func (a *Attendance) CheckedIn() bool {
	return a != nil && a.CheckInAt != nil
}

// CheckedOut reports whether the courier has already checked out.
func (a *Attendance) CheckedOut() bool {
	return a != nil && a.CheckOutAt != nil
}

package models

import "database/sql"

// Attendance is the database representation of a daily attendance record.
// (courier_id, day) is unique.
type Attendance struct {
	AttendanceID string       `db:"attendance_id"`
	CourierID    string       `db:"courier_id"`
	Day          string       `db:"day"`
	CheckInAt    sql.NullTime `db:"check_in_at"`
	CheckOutAt   sql.NullTime `db:"check_out_at"`
	Status       string       `db:"status"`
	AuditFields
}

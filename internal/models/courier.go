package models

// Courier is the database representation of a courier profile.
type Courier struct {
	CourierID   string `db:"courier_id"`
	UserID      string `db:"user_id"`
	Name        string `db:"name"`
	CourierCode string `db:"courier_code"`
	Phone       string `db:"phone"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// PIC is the database representation of a PIC profile.
type PIC struct {
	PICID    string `db:"pic_id"`
	UserID   string `db:"user_id"`
	Name     string `db:"name"`
	JobTitle string `db:"job_title"`
	Phone    string `db:"phone"`
	IsActive bool   `db:"is_active"`
	AuditFields
}

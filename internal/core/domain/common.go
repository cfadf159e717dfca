package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// DayFormat is the canonical layout for calendar-day keys. All per-day
// records (attendance, sessions, summaries) are keyed by this string form.
const DayFormat = "2006-01-02"

// DayOf returns the calendar-day key for the given instant in its location.
func DayOf(t time.Time) string {
	return t.Format(DayFormat)
}

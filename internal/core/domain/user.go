package domain

import "time"

// UserRole defines the application-level role of a user.
type UserRole string

const (
	// RoleMasterAdmin may apply courier/PIC record changes directly.
	RoleMasterAdmin UserRole = "MASTER_ADMIN"
	// RoleRegularAdmin must raise a change request and wait for approval.
	RoleRegularAdmin UserRole = "REGULAR_ADMIN"
	// RoleCourier is a field courier with a daily delivery session.
	RoleCourier UserRole = "COURIER"
	// RolePIC is a secondary admin role with a fixed job title.
	RolePIC UserRole = "PIC"
)

// User represents an authenticated user of the application.
type User struct {
	UserID string   `json:"userID"` // Primary Key (UUID)
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	AuditFields
	PasswordHash           string     `json:"-"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Soft delete
}

// IsAdmin reports whether the user holds either admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleMasterAdmin || u.Role == RoleRegularAdmin
}

package domain

// Courier is the employee profile behind a courier user. It is managed by
// admins through the approval workflow; the linked user account handles
// authentication separately.
type Courier struct {
	CourierID   string `json:"courierID"` // Primary Key (UUID)
	UserID      string `json:"userID"`    // FK -> users.user_id
	Name        string `json:"name"`
	CourierCode string `json:"courierCode"` // Short dispatch code, unique
	Phone       string `json:"phone"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// PICJobTitle is the fixed job title carried by every PIC record.
const PICJobTitle = "Person In Charge"

// PIC is a secondary admin profile managed like couriers, with a fixed job title.
type PIC struct {
	PICID    string `json:"picID"` // Primary Key (UUID)
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"` // Always PICJobTitle
	Phone    string `json:"phone"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

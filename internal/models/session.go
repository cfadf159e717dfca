package models

import (
	"database/sql"
	"time"
)

// DeliverySession is the database representation of a courier's daily session
// row holding the manifest columns. (courier_id, day) is unique.
type DeliverySession struct {
	SessionID           string       `db:"session_id"`
	CourierID           string       `db:"courier_id"`
	Day                 string       `db:"day"`
	TotalDeclared       int          `db:"total_declared"`
	CODDeclared         int          `db:"cod_declared"`
	NonCODDeclared      int          `db:"non_cod_declared"`
	ManifestSubmitted   bool         `db:"manifest_submitted"`
	ManifestSubmittedAt sql.NullTime `db:"manifest_submitted_at"`
	Finalized           bool         `db:"finalized"`
	AuditFields
}

// Parcel is the database representation of a registered parcel.
// (session_id, tracking_number) is unique.
type Parcel struct {
	SessionID      string         `db:"session_id"`
	TrackingNumber string         `db:"tracking_number"`
	Status         string         `db:"status"`
	IsCOD          bool           `db:"is_cod"`
	ProofPhotoURL  sql.NullString `db:"proof_photo_url"`
	RecipientName  sql.NullString `db:"recipient_name"`
	CreatedAt      time.Time      `db:"created_at"`
}

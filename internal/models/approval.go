package models

import "database/sql"

// ChangeRequest is the database representation of an admin change request.
type ChangeRequest struct {
	RequestID  string         `db:"request_id"`
	TargetKind string         `db:"target_kind"`
	TargetID   sql.NullString `db:"target_id"`
	Action     string         `db:"action"`
	Payload    []byte         `db:"payload"`
	Status     string         `db:"status"`
	Note       sql.NullString `db:"note"`
	DecidedBy  sql.NullString `db:"decided_by"`
	DecidedAt  sql.NullTime   `db:"decided_at"`
	AuditFields
}

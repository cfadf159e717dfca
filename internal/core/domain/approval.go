package domain

import (
	"encoding/json"
	"time"
)

// ChangeRequestStatus tracks the lifecycle of an admin change request.
type ChangeRequestStatus string

const (
	RequestPending  ChangeRequestStatus = "PENDING"
	RequestApproved ChangeRequestStatus = "APPROVED"
	RequestRejected ChangeRequestStatus = "REJECTED"
)

// ChangeRequestAction is the kind of record mutation being requested.
type ChangeRequestAction string

const (
	ActionCreate     ChangeRequestAction = "CREATE"
	ActionUpdate     ChangeRequestAction = "UPDATE"
	ActionDeactivate ChangeRequestAction = "DEACTIVATE"
)

// ChangeTargetKind identifies which record type a request targets.
type ChangeTargetKind string

const (
	TargetCourier ChangeTargetKind = "COURIER"
	TargetPIC     ChangeTargetKind = "PIC"
)

// ChangeRequest is an admin's proposed mutation of a courier or PIC record.
// Regular admins create it as pending; a master admin approves or rejects it.
// Master admins applying directly still record one for audit, pre-approved.
// A decided request is immutable.
type ChangeRequest struct {
	RequestID  string              `json:"requestID"` // Primary Key (UUID)
	TargetKind ChangeTargetKind    `json:"targetKind"`
	TargetID   string              `json:"targetID,omitempty"` // Empty for CREATE
	Action     ChangeRequestAction `json:"action"`
	Payload    json.RawMessage     `json:"payload"` // Proposed record fields
	Status     ChangeRequestStatus `json:"status"`
	Note       string              `json:"note,omitempty"`
	DecidedBy  string              `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time          `json:"decidedAt,omitempty"`
	AuditFields
}

// Decided reports whether the request has already been approved or rejected.
func (r *ChangeRequest) Decided() bool {
	return r.Status != RequestPending
}

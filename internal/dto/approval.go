package dto

import (
	"encoding/json"
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// CreateChangeRequestRequest raises a courier/PIC record change for approval.
// Payload is a CourierPayload or PICPayload depending on the target kind.
type CreateChangeRequestRequest struct {
	TargetKind domain.ChangeTargetKind    `json:"targetKind" binding:"required,oneof=COURIER PIC"`
	TargetID   string                     `json:"targetID"` // Required unless action is CREATE
	Action     domain.ChangeRequestAction `json:"action" binding:"required,oneof=CREATE UPDATE DEACTIVATE"`
	Payload    json.RawMessage            `json:"payload" binding:"required"`
	Note       string                     `json:"note"`
}

// DecideChangeRequestRequest records a master admin's decision.
type DecideChangeRequestRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ListChangeRequestsParams defines query parameters for listing requests.
type ListChangeRequestsParams struct {
	Status *domain.ChangeRequestStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit  int                         `form:"limit,default=20"`
	Offset int                         `form:"offset,default=0"`
}

// ChangeRequestResponse is the API representation of a change request.
type ChangeRequestResponse struct {
	RequestID  string                     `json:"requestID"`
	TargetKind domain.ChangeTargetKind    `json:"targetKind"`
	TargetID   string                     `json:"targetID,omitempty"`
	Action     domain.ChangeRequestAction `json:"action"`
	Payload    json.RawMessage            `json:"payload"`
	Status     domain.ChangeRequestStatus `json:"status"`
	Note       string                     `json:"note,omitempty"`
	CreatedBy  string                     `json:"createdBy"`
	CreatedAt  time.Time                  `json:"createdAt"`
	DecidedBy  string                     `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time                 `json:"decidedAt,omitempty"`
}

// ToChangeRequestResponse converts a domain.ChangeRequest to its DTO.
func ToChangeRequestResponse(r *domain.ChangeRequest) ChangeRequestResponse {
	return ChangeRequestResponse{
		RequestID:  r.RequestID,
		TargetKind: r.TargetKind,
		TargetID:   r.TargetID,
		Action:     r.Action,
		Payload:    r.Payload,
		Status:     r.Status,
		Note:       r.Note,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		DecidedBy:  r.DecidedBy,
		DecidedAt:  r.DecidedAt,
	}
}

// ListChangeRequestsResponse wraps the list of change requests.
type ListChangeRequestsResponse struct {
	Requests []ChangeRequestResponse `json:"requests"`
}

// ToListChangeRequestsResponse converts change requests to the list DTO.
func ToListChangeRequestsResponse(requests []domain.ChangeRequest) ListChangeRequestsResponse {
	out := make([]ChangeRequestResponse, len(requests))
	for i := range requests {
		out[i] = ToChangeRequestResponse(&requests[i])
	}
	return ListChangeRequestsResponse{Requests: out}
}

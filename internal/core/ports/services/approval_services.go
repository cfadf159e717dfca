package services

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// ApprovalSvcFacade drives the admin change-request workflow.
type ApprovalSvcFacade interface {
	// SubmitRequest records a change request. A master admin's request is
	// applied immediately and stored pre-approved for audit; a regular
	// admin's request stays pending until decided.
	SubmitRequest(ctx context.Context, adminUserID string, req dto.CreateChangeRequestRequest) (*domain.ChangeRequest, error)

	// DecideRequest approves or rejects a pending request. Approval applies
	// the requested change. Only master admins may decide.
	DecideRequest(ctx context.Context, deciderUserID string, requestID string, approve bool, note string) (*domain.ChangeRequest, error)

	// GetRequest retrieves a change request by ID.
	GetRequest(ctx context.Context, requesterUserID string, requestID string) (*domain.ChangeRequest, error)

	// ListRequests lists change requests, optionally filtered by status.
	ListRequests(ctx context.Context, requesterUserID string, params dto.ListChangeRequestsParams) ([]domain.ChangeRequest, error)
}

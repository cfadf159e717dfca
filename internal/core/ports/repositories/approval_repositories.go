package repositories

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// ChangeRequestReader defines read operations for change requests
type ChangeRequestReader interface {
	// FindChangeRequestByID retrieves a change request by its ID.
	FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error)

	// ListChangeRequests retrieves requests filtered by status, newest first.
	ListChangeRequests(ctx context.Context, status *domain.ChangeRequestStatus, limit int, offset int) ([]domain.ChangeRequest, error)
}

// ChangeRequestWriter defines write operations for change requests
type ChangeRequestWriter interface {
	// SaveChangeRequest persists a new change request.
	SaveChangeRequest(ctx context.Context, request domain.ChangeRequest) error

	// UpdateChangeRequestDecision records the approve/reject decision.
	UpdateChangeRequestDecision(ctx context.Context, request domain.ChangeRequest) error
}

// ChangeRequestRepositoryFacade combines all change-request repository interfaces
type ChangeRequestRepositoryFacade interface {
	ChangeRequestReader
	ChangeRequestWriter
}

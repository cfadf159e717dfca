package services

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// CourierReaderSvc defines read operations for courier profiles.
// Mutations go through the approval workflow, not here.
type CourierReaderSvc interface {
	// GetCourier retrieves a courier profile by ID.
	GetCourier(ctx context.Context, courierID string) (*domain.Courier, error)

	// GetCourierByUserID retrieves the courier profile for a user account.
	GetCourierByUserID(ctx context.Context, userID string) (*domain.Courier, error)

	// ListCouriers retrieves a paginated list of courier profiles.
	ListCouriers(ctx context.Context, limit, offset int, activeOnly bool) ([]domain.Courier, error)
}

// PICReaderSvc defines read operations for PIC profiles
type PICReaderSvc interface {
	// GetPIC retrieves a PIC profile by ID.
	GetPIC(ctx context.Context, picID string) (*domain.PIC, error)

	// ListPICs retrieves a paginated list of PIC profiles.
	ListPICs(ctx context.Context, limit, offset int) ([]domain.PIC, error)
}

// CourierSvcFacade combines courier and PIC read interfaces
type CourierSvcFacade interface {
	CourierReaderSvc
	PICReaderSvc
}

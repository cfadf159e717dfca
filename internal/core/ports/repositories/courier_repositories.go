package repositories

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// CourierReader defines read operations for courier profiles
type CourierReader interface {
	// FindCourierByID retrieves a courier profile by its ID.
	FindCourierByID(ctx context.Context, courierID string) (*domain.Courier, error)

	// FindCourierByUserID retrieves the courier profile linked to a user account.
	FindCourierByUserID(ctx context.Context, userID string) (*domain.Courier, error)

	// ListCouriers retrieves a paginated list of courier profiles.
	ListCouriers(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.Courier, error)
}

// CourierWriter defines write operations for courier profiles
type CourierWriter interface {
	// SaveCourier persists a new courier profile.
	SaveCourier(ctx context.Context, courier domain.Courier) error

	// UpdateCourier updates an existing courier profile.
	UpdateCourier(ctx context.Context, courier domain.Courier) error
}

// PICReader defines read operations for PIC profiles
type PICReader interface {
	// FindPICByID retrieves a PIC profile by its ID.
	FindPICByID(ctx context.Context, picID string) (*domain.PIC, error)

	// ListPICs retrieves a paginated list of PIC profiles.
	ListPICs(ctx context.Context, limit int, offset int) ([]domain.PIC, error)
}

// PICWriter defines write operations for PIC profiles
type PICWriter interface {
	// SavePIC persists a new PIC profile.
	SavePIC(ctx context.Context, pic domain.PIC) error

	// UpdatePIC updates an existing PIC profile.
	UpdatePIC(ctx context.Context, pic domain.PIC) error
}

// CourierRepositoryFacade combines courier and PIC repository interfaces
type CourierRepositoryFacade interface {
	CourierReader
	CourierWriter
	PICReader
	PICWriter
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
)

// courierService serves courier and PIC profile reads. All profile mutations
// go through the approval workflow.
type courierService struct {
	BaseService
	courierRepo portsrepo.CourierRepositoryFacade
}

// NewCourierService creates a new courier profile service.
func NewCourierService(courierRepo portsrepo.CourierRepositoryFacade) portssvc.CourierSvcFacade {
	return &courierService{courierRepo: courierRepo}
}

var _ portssvc.CourierSvcFacade = (*courierService)(nil)

// GetCourier retrieves a courier profile by ID.
func (s *courierService) GetCourier(ctx context.Context, courierID string) (*domain.Courier, error) {
	courier, err := s.courierRepo.FindCourierByID(ctx, courierID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get courier", slog.String("courier_id", courierID))
		}
		return nil, err
	}
	return courier, nil
}

// GetCourierByUserID retrieves the courier profile linked to a user account.
func (s *courierService) GetCourierByUserID(ctx context.Context, userID string) (*domain.Courier, error) {
	courier, err := s.courierRepo.FindCourierByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get courier by user ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return courier, nil
}

// ListCouriers retrieves a paginated list of courier profiles.
func (s *courierService) ListCouriers(ctx context.Context, limit, offset int, activeOnly bool) ([]domain.Courier, error) {
	couriers, err := s.courierRepo.ListCouriers(ctx, limit, offset, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list couriers")
		return nil, fmt.Errorf("failed to list couriers: %w", err)
	}
	return couriers, nil
}

// GetPIC retrieves a PIC profile by ID.
func (s *courierService) GetPIC(ctx context.Context, picID string) (*domain.PIC, error) {
	pic, err := s.courierRepo.FindPICByID(ctx, picID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get PIC", slog.String("pic_id", picID))
		}
		return nil, err
	}
	return pic, nil
}

// ListPICs retrieves a paginated list of PIC profiles.
func (s *courierService) ListPICs(ctx context.Context, limit, offset int) ([]domain.PIC, error) {
	pics, err := s.courierRepo.ListPICs(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list PICs")
		return nil, fmt.Errorf("failed to list PICs: %w", err)
	}
	return pics, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/utils"
)

var (
	// ErrNotAdmin rejects change-request access by non-admin users.
	ErrNotAdmin = fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)
	// ErrNotMasterAdmin rejects decisions by anyone but a master admin.
	ErrNotMasterAdmin = fmt.Errorf("%w: master admin role required", apperrors.ErrForbidden)
	// ErrRequestDecided rejects a second decision on the same request.
	ErrRequestDecided = fmt.Errorf("%w: request already decided", apperrors.ErrPrecondition)
	// ErrBadPayload rejects a change payload that does not parse or is missing
	// required fields for its action.
	ErrBadPayload = fmt.Errorf("%w: invalid change payload", apperrors.ErrValidation)
	// ErrTargetRequired rejects UPDATE and DEACTIVATE requests without a target ID.
	ErrTargetRequired = fmt.Errorf("%w: target ID required for this action", apperrors.ErrValidation)
)

// approvalService runs the two-tier admin workflow over courier and PIC
// records: master admins apply changes directly (recorded pre-approved for
// audit), regular admins raise pending requests a master admin decides.
type approvalService struct {
	BaseService
	requestRepo portsrepo.ChangeRequestRepositoryFacade
	courierRepo portsrepo.CourierRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	userSvc     portssvc.UserSvcFacade
}

// NewApprovalService creates a new approval workflow service.
func NewApprovalService(requestRepo portsrepo.ChangeRequestRepositoryFacade, courierRepo portsrepo.CourierRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.ApprovalSvcFacade {
	return &approvalService{
		requestRepo: requestRepo,
		courierRepo: courierRepo,
		userRepo:    userRepo,
		userSvc:     userSvc,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

func (s *approvalService) requireAdmin(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	if !user.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return user, nil
}

// validateRequest parses the payload for the target kind and checks that
// UPDATE/DEACTIVATE requests name an existing record.
func (s *approvalService) validateRequest(ctx context.Context, req dto.CreateChangeRequestRequest) error {
	switch req.TargetKind {
	case domain.TargetCourier:
		var payload dto.CourierPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		if req.Action == domain.ActionCreate && (payload.Name == nil || payload.CourierCode == nil) {
			return fmt.Errorf("%w: name and courierCode are required to create a courier", ErrBadPayload)
		}
	case domain.TargetPIC:
		var payload dto.PICPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		if req.Action == domain.ActionCreate && payload.Name == nil {
			return fmt.Errorf("%w: name is required to create a PIC", ErrBadPayload)
		}
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrBadPayload, req.TargetKind)
	}

	if req.Action != domain.ActionCreate {
		if req.TargetID == "" {
			return ErrTargetRequired
		}
		var err error
		if req.TargetKind == domain.TargetCourier {
			_, err = s.courierRepo.FindCourierByID(ctx, req.TargetID)
		} else {
			_, err = s.courierRepo.FindPICByID(ctx, req.TargetID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SubmitRequest records a change request. Master admin requests are applied
// immediately and stored pre-approved; regular admin requests stay pending.
func (s *approvalService) SubmitRequest(ctx context.Context, adminUserID string, req dto.CreateChangeRequestRequest) (*domain.ChangeRequest, error) {
	admin, err := s.requireAdmin(ctx, adminUserID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now()
	request := domain.ChangeRequest{
		RequestID:  uuid.NewString(),
		TargetKind: req.TargetKind,
		TargetID:   req.TargetID,
		Action:     req.Action,
		Payload:    req.Payload,
		Status:     domain.RequestPending,
		Note:       req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminUserID,
		},
	}

	if admin.Role == domain.RoleMasterAdmin {
		if err := s.applyRequest(ctx, &request, adminUserID, now); err != nil {
			return nil, err
		}
		request.Status = domain.RequestApproved
		request.DecidedBy = adminUserID
		request.DecidedAt = &now
	}

	if err := s.requestRepo.SaveChangeRequest(ctx, request); err != nil {
		s.LogError(ctx, err, "Failed to save change request", slog.String("admin_user_id", adminUserID))
		return nil, fmt.Errorf("failed to save change request: %w", err)
	}

	s.LogInfo(ctx, "Change request submitted",
		slog.String("request_id", request.RequestID),
		slog.String("target_kind", string(request.TargetKind)),
		slog.String("action", string(request.Action)),
		slog.String("status", string(request.Status)))
	return &request, nil
}

// DecideRequest approves or rejects a pending request. Only master admins may
// decide; approval applies the requested change.
func (s *approvalService) DecideRequest(ctx context.Context, deciderUserID string, requestID string, approve bool, note string) (*domain.ChangeRequest, error) {
	decider, err := s.requireAdmin(ctx, deciderUserID)
	if err != nil {
		return nil, err
	}
	if decider.Role != domain.RoleMasterAdmin {
		return nil, ErrNotMasterAdmin
	}

	request, err := s.requestRepo.FindChangeRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Decided() {
		return nil, ErrRequestDecided
	}

	now := time.Now()
	if approve {
		if err := s.applyRequest(ctx, request, deciderUserID, now); err != nil {
			return nil, err
		}
		request.Status = domain.RequestApproved
	} else {
		request.Status = domain.RequestRejected
	}
	if note != "" {
		request.Note = note
	}
	request.DecidedBy = deciderUserID
	request.DecidedAt = &now
	request.LastUpdatedAt = now
	request.LastUpdatedBy = deciderUserID

	if err := s.requestRepo.UpdateChangeRequestDecision(ctx, *request); err != nil {
		s.LogError(ctx, err, "Failed to record decision", slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}

	s.LogInfo(ctx, "Change request decided",
		slog.String("request_id", requestID),
		slog.String("status", string(request.Status)),
		slog.String("decided_by", deciderUserID))
	return request, nil
}

// GetRequest retrieves a change request by ID.
func (s *approvalService) GetRequest(ctx context.Context, requesterUserID string, requestID string) (*domain.ChangeRequest, error) {
	if _, err := s.requireAdmin(ctx, requesterUserID); err != nil {
		return nil, err
	}
	return s.requestRepo.FindChangeRequestByID(ctx, requestID)
}

// ListRequests lists change requests, optionally filtered by status.
func (s *approvalService) ListRequests(ctx context.Context, requesterUserID string, params dto.ListChangeRequestsParams) ([]domain.ChangeRequest, error) {
	if _, err := s.requireAdmin(ctx, requesterUserID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.requestRepo.ListChangeRequests(ctx, params.Status, limit, params.Offset)
}

// applyRequest mutates the target record per the request. Called on approval
// or for a master admin's direct submission.
func (s *approvalService) applyRequest(ctx context.Context, request *domain.ChangeRequest, actorUserID string, now time.Time) error {
	switch request.TargetKind {
	case domain.TargetCourier:
		return s.applyCourierChange(ctx, request, actorUserID, now)
	case domain.TargetPIC:
		return s.applyPICChange(ctx, request, actorUserID, now)
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrBadPayload, request.TargetKind)
	}
}

func (s *approvalService) applyCourierChange(ctx context.Context, request *domain.ChangeRequest, actorUserID string, now time.Time) error {
	// The payload was validated at submission; a decode failure here means
	// the stored request is corrupt.
	var payload dto.CourierPayload
	if err := json.Unmarshal(request.Payload, &payload); err != nil {
		return fmt.Errorf("%w: stored courier payload does not parse: %v", apperrors.ErrInternal, err)
	}

	switch request.Action {
	case domain.ActionCreate:
		userID, err := s.provisionUser(ctx, payload.Email, payload.Name, domain.RoleCourier, actorUserID)
		if err != nil {
			return err
		}
		courier := domain.Courier{
			CourierID:   uuid.NewString(),
			UserID:      userID,
			Name:        *payload.Name,
			CourierCode: *payload.CourierCode,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
		if payload.Phone != nil {
			courier.Phone = *payload.Phone
		}
		request.TargetID = courier.CourierID
		return s.courierRepo.SaveCourier(ctx, courier)

	case domain.ActionUpdate, domain.ActionDeactivate:
		courier, err := s.courierRepo.FindCourierByID(ctx, request.TargetID)
		if err != nil {
			return err
		}
		if request.Action == domain.ActionDeactivate {
			courier.IsActive = false
		} else {
			if payload.Name != nil {
				courier.Name = *payload.Name
			}
			if payload.CourierCode != nil {
				courier.CourierCode = *payload.CourierCode
			}
			if payload.Phone != nil {
				courier.Phone = *payload.Phone
			}
		}
		courier.LastUpdatedAt = now
		courier.LastUpdatedBy = actorUserID
		return s.courierRepo.UpdateCourier(ctx, *courier)

	default:
		return fmt.Errorf("%w: unknown action %q", ErrBadPayload, request.Action)
	}
}

func (s *approvalService) applyPICChange(ctx context.Context, request *domain.ChangeRequest, actorUserID string, now time.Time) error {
	var payload dto.PICPayload
	if err := json.Unmarshal(request.Payload, &payload); err != nil {
		return fmt.Errorf("%w: stored PIC payload does not parse: %v", apperrors.ErrInternal, err)
	}

	switch request.Action {
	case domain.ActionCreate:
		userID, err := s.provisionUser(ctx, payload.Email, payload.Name, domain.RolePIC, actorUserID)
		if err != nil {
			return err
		}
		pic := domain.PIC{
			PICID:    uuid.NewString(),
			UserID:   userID,
			Name:     *payload.Name,
			JobTitle: domain.PICJobTitle,
			IsActive: true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
		if payload.Phone != nil {
			pic.Phone = *payload.Phone
		}
		request.TargetID = pic.PICID
		return s.courierRepo.SavePIC(ctx, pic)

	case domain.ActionUpdate, domain.ActionDeactivate:
		pic, err := s.courierRepo.FindPICByID(ctx, request.TargetID)
		if err != nil {
			return err
		}
		if request.Action == domain.ActionDeactivate {
			pic.IsActive = false
		} else {
			if payload.Name != nil {
				pic.Name = *payload.Name
			}
			if payload.Phone != nil {
				pic.Phone = *payload.Phone
			}
		}
		pic.LastUpdatedAt = now
		pic.LastUpdatedBy = actorUserID
		return s.courierRepo.UpdatePIC(ctx, *pic)

	default:
		return fmt.Errorf("%w: unknown action %q", ErrBadPayload, request.Action)
	}
}

// provisionUser creates the login account linked to a new courier/PIC record
// when an email is supplied. The account starts with a random password the
// user resets out of band.
func (s *approvalService) provisionUser(ctx context.Context, email, name *string, role domain.UserRole, actorUserID string) (string, error) {
	if email == nil || *email == "" {
		return "", nil
	}
	displayName := ""
	if name != nil {
		displayName = *name
	}
	password, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate initial password: %w", err)
	}
	user, err := s.userSvc.CreateUser(ctx, dto.CreateUserRequest{
		Name:     displayName,
		Email:    *email,
		Password: password,
		Role:     role,
	}, actorUserID)
	if err != nil {
		return "", fmt.Errorf("failed to provision linked user: %w", err)
	}
	return user.UserID, nil
}

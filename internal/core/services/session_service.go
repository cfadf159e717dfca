package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

var (
	// ErrManifestZeroTotal rejects a manifest declaring no parcels.
	ErrManifestZeroTotal = fmt.Errorf("%w: declared total must be greater than zero", apperrors.ErrValidation)
	// ErrManifestCountMismatch rejects COD + non-COD counts that do not sum to the total.
	ErrManifestCountMismatch = fmt.Errorf("%w: cod and non-cod counts must sum to the declared total", apperrors.ErrValidation)
	// ErrManifestAlreadySubmitted rejects a second submission without a revise.
	ErrManifestAlreadySubmitted = fmt.Errorf("%w: manifest already submitted today", apperrors.ErrDuplicate)
	// ErrManifestRequired gates intake and delivery before the manifest is submitted.
	ErrManifestRequired = fmt.Errorf("%w: manifest must be submitted first", apperrors.ErrPrecondition)
	// ErrDayFinalized rejects mutations after the day has been finalized.
	ErrDayFinalized = fmt.Errorf("%w: day already finalized", apperrors.ErrPrecondition)
	// ErrEmptyTrackingNumber rejects a blank resi.
	ErrEmptyTrackingNumber = fmt.Errorf("%w: tracking number is required", apperrors.ErrValidation)
	// ErrDuplicateTrackingNumber rejects a resi already in today's registry.
	ErrDuplicateTrackingNumber = fmt.Errorf("%w: tracking number already registered today", apperrors.ErrDuplicate)
	// ErrRegistryFull rejects intake beyond the declared total.
	ErrRegistryFull = fmt.Errorf("%w: registry already holds the declared total", apperrors.ErrCapacityExceeded)
	// ErrParcelNotFound is returned for a resi absent from today's registry.
	ErrParcelNotFound = fmt.Errorf("%w: parcel not in today's registry", apperrors.ErrNotFound)
	// ErrUnknownStatus rejects a target status outside the closed set.
	ErrUnknownStatus = fmt.Errorf("%w: unknown parcel status", apperrors.ErrValidation)
	// ErrIllegalTransition rejects an edge missing from the status graph.
	ErrIllegalTransition = fmt.Errorf("%w: illegal status transition", apperrors.ErrValidation)
	// ErrRecipientAndProofRequired guards the Delivered edge.
	ErrRecipientAndProofRequired = fmt.Errorf("%w: recipient name and photo required", apperrors.ErrValidation)
	// ErrProofRequired guards the Returned edge.
	ErrProofRequired = fmt.Errorf("%w: proof required", apperrors.ErrValidation)
	// ErrDeliveryActionsLocked blocks delivered/failed marking until every
	// declared parcel is scanned and out of processing.
	ErrDeliveryActionsLocked = fmt.Errorf("%w: delivery actions are not enabled yet", apperrors.ErrPrecondition)
	// ErrRegistryIncomplete blocks finalization while the registry is short of the declared total.
	ErrRegistryIncomplete = fmt.Errorf("%w: registry does not match the declared total", apperrors.ErrPrecondition)
	// ErrParcelsUnresolved blocks finalization while parcels are still processing or out for delivery.
	ErrParcelsUnresolved = fmt.Errorf("%w: parcels are still in progress", apperrors.ErrPrecondition)
	// ErrReturnsUnresolved blocks finalization while failed parcels have not been returned with proof.
	ErrReturnsUnresolved = fmt.Errorf("%w: failed parcels must be returned with proof first", apperrors.ErrPrecondition)
)

// sessionService owns the per-courier per-day delivery session aggregate:
// manifest, parcel registry, status transitions and finalization.
type sessionService struct {
	BaseService
	sessionRepo   portsrepo.SessionRepositoryFacade
	attendanceSvc portssvc.AttendanceReaderSvc
	statsCache    portssvc.StatsCacheInvalidator
}

// NewSessionService creates a new delivery session service. statsCache may be
// nil when no cache is configured.
func NewSessionService(sessionRepo portsrepo.SessionRepositoryFacade, attendanceSvc portssvc.AttendanceReaderSvc, statsCache portssvc.StatsCacheInvalidator) portssvc.SessionSvcFacade {
	return &sessionService{
		sessionRepo:   sessionRepo,
		attendanceSvc: attendanceSvc,
		statsCache:    statsCache,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// requireAttendance is the gate every mutating operation passes first.
func (s *sessionService) requireAttendance(ctx context.Context, courierID string, day string) error {
	checkedIn, err := s.attendanceSvc.IsCheckedIn(ctx, courierID, day)
	if err != nil {
		return fmt.Errorf("failed to check attendance: %w", err)
	}
	if !checkedIn {
		return ErrAttendanceRequired
	}
	return nil
}

// loadSession fetches the courier's session for the day. A missing session
// means the manifest was never submitted.
func (s *sessionService) loadSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error) {
	session, err := s.sessionRepo.FindSession(ctx, courierID, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrManifestRequired
		}
		s.LogError(ctx, err, "Failed to load delivery session", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, err
	}
	return session, nil
}

// SubmitManifest declares and locks today's parcel counts. The session
// aggregate is created here on first submission of the day.
func (s *sessionService) SubmitManifest(ctx context.Context, courierID string, now time.Time, req dto.SubmitManifestRequest) (*domain.DeliverySession, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	if req.TotalDeclared <= 0 {
		return nil, ErrManifestZeroTotal
	}
	if req.CODDeclared < 0 || req.NonCODDeclared < 0 || req.CODDeclared+req.NonCODDeclared != req.TotalDeclared {
		return nil, ErrManifestCountMismatch
	}

	session, err := s.sessionRepo.FindSession(ctx, courierID, day)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load session for manifest", slog.String("courier_id", courierID))
		return nil, err
	}

	submittedAt := now
	if session == nil {
		session = &domain.DeliverySession{
			SessionID: uuid.NewString(),
			CourierID: courierID,
			Day:       day,
			Manifest: domain.Manifest{
				TotalDeclared:  req.TotalDeclared,
				CODDeclared:    req.CODDeclared,
				NonCODDeclared: req.NonCODDeclared,
				Submitted:      true,
				SubmittedAt:    &submittedAt,
			},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     courierID,
				LastUpdatedAt: now,
				LastUpdatedBy: courierID,
			},
		}
		if err := s.sessionRepo.SaveSession(ctx, *session); err != nil {
			s.LogError(ctx, err, "Failed to save session", slog.String("courier_id", courierID), slog.String("day", day))
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		s.LogInfo(ctx, "Manifest submitted",
			slog.String("courier_id", courierID),
			slog.String("day", day),
			slog.Int("total", req.TotalDeclared))
		return session, nil
	}

	if session.Finalized {
		return nil, ErrDayFinalized
	}
	if session.Manifest.Submitted {
		return nil, ErrManifestAlreadySubmitted
	}

	// Re-submission after a revise keeps the registry as-is.
	session.Manifest = domain.Manifest{
		TotalDeclared:  req.TotalDeclared,
		CODDeclared:    req.CODDeclared,
		NonCODDeclared: req.NonCODDeclared,
		Submitted:      true,
		SubmittedAt:    &submittedAt,
	}
	session.LastUpdatedAt = now
	session.LastUpdatedBy = courierID

	if err := s.sessionRepo.UpdateManifest(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to update manifest", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, fmt.Errorf("failed to update manifest: %w", err)
	}
	s.LogInfo(ctx, "Manifest re-submitted", slog.String("courier_id", courierID), slog.String("day", day))
	return session, nil
}

// ReviseManifest reopens today's manifest without touching registered parcels.
func (s *sessionService) ReviseManifest(ctx context.Context, courierID string, now time.Time) (*domain.DeliverySession, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return nil, err
	}
	if session.Finalized {
		return nil, ErrDayFinalized
	}
	if !session.Manifest.Submitted {
		return nil, ErrManifestRequired
	}

	session.Manifest.Submitted = false
	session.Manifest.SubmittedAt = nil
	session.LastUpdatedAt = now
	session.LastUpdatedBy = courierID

	if err := s.sessionRepo.UpdateManifest(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to revise manifest", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, fmt.Errorf("failed to revise manifest: %w", err)
	}
	s.LogInfo(ctx, "Manifest reopened for revision",
		slog.String("courier_id", courierID),
		slog.String("day", day),
		slog.Int("parcels_kept", len(session.Parcels)))
	return session, nil
}

// RegisterParcel scans a parcel into today's registry, most-recent-first.
func (s *sessionService) RegisterParcel(ctx context.Context, courierID string, now time.Time, req dto.RegisterParcelRequest) (*domain.Parcel, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return nil, err
	}
	if session.Finalized {
		return nil, ErrDayFinalized
	}
	if !session.Manifest.Submitted {
		return nil, ErrManifestRequired
	}

	trackingNumber := domain.NormalizeTrackingNumber(req.TrackingNumber)
	if trackingNumber == "" {
		return nil, ErrEmptyTrackingNumber
	}
	if existing, _ := session.FindParcel(trackingNumber); existing != nil {
		return nil, ErrDuplicateTrackingNumber
	}
	if len(session.Parcels) >= session.Manifest.TotalDeclared {
		return nil, ErrRegistryFull
	}

	parcel := domain.Parcel{
		TrackingNumber: trackingNumber,
		Status:         domain.ParcelProcessing,
		IsCOD:          req.IsCOD,
		CreatedAt:      now,
	}
	if err := s.sessionRepo.InsertParcel(ctx, session.SessionID, parcel); err != nil {
		s.LogError(ctx, err, "Failed to register parcel",
			slog.String("courier_id", courierID), slog.String("tracking_number", trackingNumber))
		return nil, fmt.Errorf("failed to register parcel: %w", err)
	}

	s.LogInfo(ctx, "Parcel registered",
		slog.String("courier_id", courierID),
		slog.String("tracking_number", trackingNumber),
		slog.Int("registry_size", len(session.Parcels)+1),
		slog.Int("declared_total", session.Manifest.TotalDeclared))
	return &parcel, nil
}

// RemoveParcel deletes a parcel from today's registry regardless of its
// status, matching the observed application behavior.
func (s *sessionService) RemoveParcel(ctx context.Context, courierID string, now time.Time, trackingNumber string) error {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return err
	}
	if session.Finalized {
		return ErrDayFinalized
	}

	trackingNumber = domain.NormalizeTrackingNumber(trackingNumber)
	parcel, _ := session.FindParcel(trackingNumber)
	if parcel == nil {
		return ErrParcelNotFound
	}

	if err := s.sessionRepo.DeleteParcel(ctx, session.SessionID, trackingNumber); err != nil {
		s.LogError(ctx, err, "Failed to remove parcel",
			slog.String("courier_id", courierID), slog.String("tracking_number", trackingNumber))
		return fmt.Errorf("failed to remove parcel: %w", err)
	}

	s.LogInfo(ctx, "Parcel removed",
		slog.String("courier_id", courierID),
		slog.String("tracking_number", trackingNumber),
		slog.String("status_at_removal", string(parcel.Status)))
	return nil
}

// UpdateRecipientName sets the recipient name on a registered parcel.
func (s *sessionService) UpdateRecipientName(ctx context.Context, courierID string, now time.Time, trackingNumber, name string) (*domain.Parcel, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return nil, err
	}
	if session.Finalized {
		return nil, ErrDayFinalized
	}

	trackingNumber = domain.NormalizeTrackingNumber(trackingNumber)
	parcel, _ := session.FindParcel(trackingNumber)
	if parcel == nil {
		return nil, ErrParcelNotFound
	}

	parcel.RecipientName = name
	if err := s.sessionRepo.UpdateParcel(ctx, session.SessionID, *parcel); err != nil {
		s.LogError(ctx, err, "Failed to update recipient name",
			slog.String("courier_id", courierID), slog.String("tracking_number", trackingNumber))
		return nil, fmt.Errorf("failed to update recipient name: %w", err)
	}
	return parcel, nil
}

// Transition moves a parcel along the status graph, enforcing the per-edge
// requirements and the delivery-actions gate.
func (s *sessionService) Transition(ctx context.Context, courierID string, now time.Time, req dto.TransitionRequest) (*domain.Parcel, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return nil, err
	}
	if session.Finalized {
		return nil, ErrDayFinalized
	}

	trackingNumber := domain.NormalizeTrackingNumber(req.TrackingNumber)
	parcel, _ := session.FindParcel(trackingNumber)
	if parcel == nil {
		return nil, ErrParcelNotFound
	}

	target := req.TargetStatus
	if !domain.ValidStatus(target) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if !domain.CanTransition(parcel.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, parcel.Status, target)
	}

	// Resolve the proof/recipient the parcel would end up with.
	proof := parcel.ProofPhotoURL
	if req.ProofPhotoURL != "" {
		proof = req.ProofPhotoURL
	}
	recipient := parcel.RecipientName
	if req.RecipientName != "" {
		recipient = req.RecipientName
	}

	switch target {
	case domain.ParcelDelivered, domain.ParcelFailed, domain.ParcelPendingReturn:
		if !session.DeliveryActionsEnabled() {
			return nil, ErrDeliveryActionsLocked
		}
		if target == domain.ParcelDelivered && (recipient == "" || proof == "") {
			return nil, ErrRecipientAndProofRequired
		}
	case domain.ParcelReturned:
		if proof == "" {
			return nil, ErrProofRequired
		}
	}

	from := parcel.Status
	parcel.Status = target
	parcel.ProofPhotoURL = proof
	parcel.RecipientName = recipient

	if err := s.sessionRepo.UpdateParcel(ctx, session.SessionID, *parcel); err != nil {
		s.LogError(ctx, err, "Failed to persist status transition",
			slog.String("courier_id", courierID), slog.String("tracking_number", trackingNumber))
		return nil, fmt.Errorf("failed to persist status transition: %w", err)
	}

	s.LogInfo(ctx, "Parcel status changed",
		slog.String("courier_id", courierID),
		slog.String("tracking_number", trackingNumber),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	return parcel, nil
}

// FinalizeDay computes and persists today's summary, then closes the session.
// Preconditions are checked in order and the first violation is reported;
// nothing is written on failure. Re-finalization recomputes the same summary
// and overwrites it (last-write-wins).
func (s *sessionService) FinalizeDay(ctx context.Context, courierID string, now time.Time) (*domain.DailySummary, error) {
	day := domain.DayOf(now)
	if err := s.requireAttendance(ctx, courierID, day); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, courierID, day)
	if err != nil {
		return nil, err
	}
	if !session.Manifest.Submitted && !session.Finalized {
		return nil, ErrManifestRequired
	}
	if len(session.Parcels) != session.Manifest.TotalDeclared {
		return nil, ErrRegistryIncomplete
	}

	counts := session.CountByStatus()
	if counts[domain.ParcelProcessing] > 0 || counts[domain.ParcelOutForDelivery] > 0 {
		return nil, ErrParcelsUnresolved
	}
	if counts[domain.ParcelFailed] > 0 || counts[domain.ParcelPendingReturn] > 0 {
		return nil, ErrReturnsUnresolved
	}

	delivered := counts[domain.ParcelDelivered]
	failedOrReturned := counts[domain.ParcelFailed] + counts[domain.ParcelPendingReturn] + counts[domain.ParcelReturned]

	summary := domain.DailySummary{
		CourierID:                courierID,
		Day:                      day,
		PackagesCarried:          len(session.Parcels),
		PackagesDelivered:        delivered,
		PackagesFailedOrReturned: failedOrReturned,
		SuccessRate:              domain.ComputeSuccessRate(delivered, failedOrReturned),
		FinalizedAt:              now,
	}

	session.Finalized = true
	session.LastUpdatedAt = now
	session.LastUpdatedBy = courierID

	if err := s.sessionRepo.FinalizeSession(ctx, *session, summary); err != nil {
		s.LogError(ctx, err, "Failed to finalize day", slog.String("courier_id", courierID), slog.String("day", day))
		return nil, fmt.Errorf("failed to finalize day: %w", err)
	}

	if s.statsCache != nil {
		if err := s.statsCache.InvalidateCourier(ctx, courierID); err != nil {
			s.LogWarn(ctx, "Failed to invalidate stats cache", slog.String("courier_id", courierID), slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Day finalized",
		slog.String("courier_id", courierID),
		slog.String("day", day),
		slog.Int("delivered", delivered),
		slog.Int("failed_or_returned", failedOrReturned),
		slog.String("success_rate", summary.SuccessRate.String()))
	return &summary, nil
}

// GetSession retrieves the delivery session for a courier on a day.
func (s *sessionService) GetSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error) {
	session, err := s.sessionRepo.FindSession(ctx, courierID, day)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load delivery session", slog.String("courier_id", courierID), slog.String("day", day))
		}
		return nil, err
	}
	return session, nil
}

package services

import (
	"context"
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// ManifestSvc defines the daily manifest operations
type ManifestSvc interface {
	// SubmitManifest declares and locks today's parcel counts.
	SubmitManifest(ctx context.Context, courierID string, now time.Time, req dto.SubmitManifestRequest) (*domain.DeliverySession, error)

	// ReviseManifest reopens today's manifest. Registered parcels are kept.
	ReviseManifest(ctx context.Context, courierID string, now time.Time) (*domain.DeliverySession, error)
}

// RegistrySvc defines parcel intake operations
type RegistrySvc interface {
	// RegisterParcel scans a parcel into today's registry.
	RegisterParcel(ctx context.Context, courierID string, now time.Time, req dto.RegisterParcelRequest) (*domain.Parcel, error)

	// RemoveParcel deletes a parcel from today's registry.
	RemoveParcel(ctx context.Context, courierID string, now time.Time, trackingNumber string) error

	// UpdateRecipientName sets the recipient name on a registered parcel.
	UpdateRecipientName(ctx context.Context, courierID string, now time.Time, trackingNumber, name string) (*domain.Parcel, error)
}

// TransitionSvc drives the parcel status state machine
type TransitionSvc interface {
	// Transition moves a parcel to the target status, enforcing the legal
	// status graph and the per-edge proof/recipient requirements.
	Transition(ctx context.Context, courierID string, now time.Time, req dto.TransitionRequest) (*domain.Parcel, error)
}

// FinalizerSvc closes out a courier's day
type FinalizerSvc interface {
	// FinalizeDay computes and persists today's summary and locks the session
	// against further mutation.
	FinalizeDay(ctx context.Context, courierID string, now time.Time) (*domain.DailySummary, error)
}

// SessionReaderSvc exposes the current session state
type SessionReaderSvc interface {
	// GetSession retrieves the delivery session for a courier on a day.
	GetSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error)
}

// SessionSvcFacade combines all daily-delivery-session service interfaces
type SessionSvcFacade interface {
	ManifestSvc
	RegistrySvc
	TransitionSvc
	FinalizerSvc
	SessionReaderSvc
}

package repositories

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// SessionReader defines read operations for daily delivery sessions
type SessionReader interface {
	// FindSession retrieves the delivery session for a courier on a day,
	// including its full parcel registry (most-recent-first).
	FindSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error)

	// ListUnfinalizedSessions returns sessions for a day that were never finalized.
	ListUnfinalizedSessions(ctx context.Context, day string) ([]domain.DeliverySession, error)
}

// SessionWriter defines write operations for daily delivery sessions
type SessionWriter interface {
	// SaveSession persists a new delivery session.
	SaveSession(ctx context.Context, session domain.DeliverySession) error

	// UpdateManifest updates the manifest columns of a session.
	UpdateManifest(ctx context.Context, session domain.DeliverySession) error

	// InsertParcel adds a parcel to a session's registry.
	InsertParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error

	// UpdateParcel updates a parcel's mutable fields (status, proof, recipient).
	UpdateParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error

	// DeleteParcel removes a parcel from a session's registry.
	DeleteParcel(ctx context.Context, sessionID string, trackingNumber string) error

	// FinalizeSession atomically writes the daily summary (last-write-wins on
	// its (day, courier) key) and marks the session finalized. The registry is
	// kept for audit; further mutation is blocked at the service layer. All or
	// nothing.
	FinalizeSession(ctx context.Context, session domain.DeliverySession, summary domain.DailySummary) error
}

// SessionRepositoryFacade combines all session-related repository interfaces
type SessionRepositoryFacade interface {
	SessionReader
	SessionWriter
}

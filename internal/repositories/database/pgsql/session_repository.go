package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	"github.com/KurirHub/courier_management_app/internal/models"
)

type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(db *pgxpool.Pool) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

func toDomainSession(m models.DeliverySession) domain.DeliverySession {
	d := domain.DeliverySession{
		SessionID: m.SessionID,
		CourierID: m.CourierID,
		Day:       m.Day,
		Manifest: domain.Manifest{
			TotalDeclared:  m.TotalDeclared,
			CODDeclared:    m.CODDeclared,
			NonCODDeclared: m.NonCODDeclared,
			Submitted:      m.ManifestSubmitted,
		},
		Finalized: m.Finalized,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ManifestSubmittedAt.Valid {
		submittedAt := m.ManifestSubmittedAt.Time
		d.Manifest.SubmittedAt = &submittedAt
	}
	return d
}

func toDomainParcel(m models.Parcel) domain.Parcel {
	d := domain.Parcel{
		TrackingNumber: m.TrackingNumber,
		Status:         domain.ParcelStatus(m.Status),
		IsCOD:          m.IsCOD,
		CreatedAt:      m.CreatedAt,
	}
	if m.ProofPhotoURL.Valid {
		d.ProofPhotoURL = m.ProofPhotoURL.String
	}
	if m.RecipientName.Valid {
		d.RecipientName = m.RecipientName.String
	}
	return d
}

const sessionColumns = `session_id, courier_id, day, total_declared, cod_declared, non_cod_declared, manifest_submitted, manifest_submitted_at, finalized, created_at, created_by, last_updated_at, last_updated_by`

func scanSession(row pgx.Row) (models.DeliverySession, error) {
	var m models.DeliverySession
	err := row.Scan(
		&m.SessionID,
		&m.CourierID,
		&m.Day,
		&m.TotalDeclared,
		&m.CODDeclared,
		&m.NonCODDeclared,
		&m.ManifestSubmitted,
		&m.ManifestSubmittedAt,
		&m.Finalized,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadParcels fetches a session's registry most-recent-first.
func (r *PgxSessionRepository) loadParcels(ctx context.Context, sessionID string) ([]domain.Parcel, error) {
	query := `
        SELECT session_id, tracking_number, status, is_cod, proof_photo_url, recipient_name, created_at
        FROM parcels
        WHERE session_id = $1
        ORDER BY created_at DESC, tracking_number;
    `
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query parcels for session %s: %w", apperrors.ErrPersistence, sessionID, err)
	}
	defer rows.Close()

	var parcels []domain.Parcel
	for rows.Next() {
		var m models.Parcel
		if err := rows.Scan(&m.SessionID, &m.TrackingNumber, &m.Status, &m.IsCOD, &m.ProofPhotoURL, &m.RecipientName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan parcel row: %w", apperrors.ErrPersistence, err)
		}
		parcels = append(parcels, toDomainParcel(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate parcel rows: %w", apperrors.ErrPersistence, err)
	}
	return parcels, nil
}

func (r *PgxSessionRepository) FindSession(ctx context.Context, courierID string, day string) (*domain.DeliverySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM delivery_sessions WHERE courier_id = $1 AND day = $2;`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, courierID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find session for courier %s on %s: %w", apperrors.ErrPersistence, courierID, day, err)
	}

	d := toDomainSession(m)
	parcels, err := r.loadParcels(ctx, d.SessionID)
	if err != nil {
		return nil, err
	}
	d.Parcels = parcels
	return &d, nil
}

func (r *PgxSessionRepository) ListUnfinalizedSessions(ctx context.Context, day string) ([]domain.DeliverySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM delivery_sessions WHERE day = $1 AND NOT finalized;`
	rows, err := r.Pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query unfinalized sessions for %s: %w", apperrors.ErrPersistence, day, err)
	}
	defer rows.Close()

	var sessions []domain.DeliverySession
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan session row: %w", apperrors.ErrPersistence, err)
		}
		sessions = append(sessions, toDomainSession(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate session rows: %w", apperrors.ErrPersistence, err)
	}
	return sessions, nil
}

func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.DeliverySession) error {
	var submittedAt sql.NullTime
	if session.Manifest.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *session.Manifest.SubmittedAt, Valid: true}
	}

	query := `
        INSERT INTO delivery_sessions (session_id, courier_id, day, total_declared, cod_declared, non_cod_declared, manifest_submitted, manifest_submitted_at, finalized, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		session.SessionID,
		session.CourierID,
		session.Day,
		session.Manifest.TotalDeclared,
		session.Manifest.CODDeclared,
		session.Manifest.NonCODDeclared,
		session.Manifest.Submitted,
		submittedAt,
		session.Finalized,
		session.CreatedAt,
		session.CreatedBy,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session already exists for courier %s on %s: %w", session.CourierID, session.Day, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to save session: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *PgxSessionRepository) UpdateManifest(ctx context.Context, session domain.DeliverySession) error {
	var submittedAt sql.NullTime
	if session.Manifest.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *session.Manifest.SubmittedAt, Valid: true}
	}

	query := `
        UPDATE delivery_sessions
        SET total_declared = $2, cod_declared = $3, non_cod_declared = $4, manifest_submitted = $5, manifest_submitted_at = $6, last_updated_at = $7, last_updated_by = $8
        WHERE session_id = $1;
    `
	tag, err := r.Pool.Exec(ctx, query,
		session.SessionID,
		session.Manifest.TotalDeclared,
		session.Manifest.CODDeclared,
		session.Manifest.NonCODDeclared,
		session.Manifest.Submitted,
		submittedAt,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update manifest for session %s: %w", apperrors.ErrPersistence, session.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSessionRepository) InsertParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error {
	var proof, recipient sql.NullString
	if parcel.ProofPhotoURL != "" {
		proof = sql.NullString{String: parcel.ProofPhotoURL, Valid: true}
	}
	if parcel.RecipientName != "" {
		recipient = sql.NullString{String: parcel.RecipientName, Valid: true}
	}

	query := `
        INSERT INTO parcels (session_id, tracking_number, status, is_cod, proof_photo_url, recipient_name, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.Pool.Exec(ctx, query,
		sessionID,
		parcel.TrackingNumber,
		string(parcel.Status),
		parcel.IsCOD,
		proof,
		recipient,
		parcel.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("parcel %s already registered: %w", parcel.TrackingNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to insert parcel %s: %w", apperrors.ErrPersistence, parcel.TrackingNumber, err)
	}
	return nil
}

func (r *PgxSessionRepository) UpdateParcel(ctx context.Context, sessionID string, parcel domain.Parcel) error {
	var proof, recipient sql.NullString
	if parcel.ProofPhotoURL != "" {
		proof = sql.NullString{String: parcel.ProofPhotoURL, Valid: true}
	}
	if parcel.RecipientName != "" {
		recipient = sql.NullString{String: parcel.RecipientName, Valid: true}
	}

	query := `
        UPDATE parcels
        SET status = $3, proof_photo_url = $4, recipient_name = $5
        WHERE session_id = $1 AND tracking_number = $2;
    `
	tag, err := r.Pool.Exec(ctx, query, sessionID, parcel.TrackingNumber, string(parcel.Status), proof, recipient)
	if err != nil {
		return fmt.Errorf("%w: failed to update parcel %s: %w", apperrors.ErrPersistence, parcel.TrackingNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSessionRepository) DeleteParcel(ctx context.Context, sessionID string, trackingNumber string) error {
	query := `DELETE FROM parcels WHERE session_id = $1 AND tracking_number = $2;`
	tag, err := r.Pool.Exec(ctx, query, sessionID, trackingNumber)
	if err != nil {
		return fmt.Errorf("%w: failed to delete parcel %s: %w", apperrors.ErrPersistence, trackingNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FinalizeSession writes the day's summary and marks the session finalized in
// one transaction.
func (r *PgxSessionRepository) FinalizeSession(ctx context.Context, session domain.DeliverySession, summary domain.DailySummary) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := upsertSummary(ctx, tx, summary); err != nil {
		return err
	}

	sessionQuery := `
        UPDATE delivery_sessions
        SET finalized = true, last_updated_at = $2, last_updated_by = $3
        WHERE session_id = $1;
    `
	tag, err := tx.Exec(ctx, sessionQuery, session.SessionID, session.LastUpdatedAt, session.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("%w: failed to mark session %s finalized: %w", apperrors.ErrPersistence, session.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

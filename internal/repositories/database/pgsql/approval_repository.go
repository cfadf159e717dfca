package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	"github.com/KurirHub/courier_management_app/internal/models"
)

type PgxChangeRequestRepository struct {
	BaseRepository
}

func newPgxChangeRequestRepository(db *pgxpool.Pool) portsrepo.ChangeRequestRepositoryFacade {
	return &PgxChangeRequestRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ChangeRequestRepositoryFacade = (*PgxChangeRequestRepository)(nil)

func toModelChangeRequest(d domain.ChangeRequest) models.ChangeRequest {
	m := models.ChangeRequest{
		RequestID:  d.RequestID,
		TargetKind: string(d.TargetKind),
		Action:     string(d.Action),
		Payload:    []byte(d.Payload),
		Status:     string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.TargetID != "" {
		m.TargetID = sql.NullString{String: d.TargetID, Valid: true}
	}
	if d.Note != "" {
		m.Note = sql.NullString{String: d.Note, Valid: true}
	}
	if d.DecidedBy != "" {
		m.DecidedBy = sql.NullString{String: d.DecidedBy, Valid: true}
	}
	if d.DecidedAt != nil {
		m.DecidedAt = sql.NullTime{Time: *d.DecidedAt, Valid: true}
	}
	return m
}

func toDomainChangeRequest(m models.ChangeRequest) domain.ChangeRequest {
	d := domain.ChangeRequest{
		RequestID:  m.RequestID,
		TargetKind: domain.ChangeTargetKind(m.TargetKind),
		Action:     domain.ChangeRequestAction(m.Action),
		Payload:    json.RawMessage(m.Payload),
		Status:     domain.ChangeRequestStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.TargetID.Valid {
		d.TargetID = m.TargetID.String
	}
	if m.Note.Valid {
		d.Note = m.Note.String
	}
	if m.DecidedBy.Valid {
		d.DecidedBy = m.DecidedBy.String
	}
	if m.DecidedAt.Valid {
		decidedAt := m.DecidedAt.Time
		d.DecidedAt = &decidedAt
	}
	return d
}

const changeRequestColumns = `request_id, target_kind, target_id, action, payload, status, note, decided_by, decided_at, created_at, created_by, last_updated_at, last_updated_by`

func scanChangeRequest(row pgx.Row) (models.ChangeRequest, error) {
	var m models.ChangeRequest
	err := row.Scan(
		&m.RequestID,
		&m.TargetKind,
		&m.TargetID,
		&m.Action,
		&m.Payload,
		&m.Status,
		&m.Note,
		&m.DecidedBy,
		&m.DecidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxChangeRequestRepository) FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE request_id = $1;`
	m, err := scanChangeRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find change request %s: %w", apperrors.ErrPersistence, requestID, err)
	}
	d := toDomainChangeRequest(m)
	return &d, nil
}

func (r *PgxChangeRequestRepository) ListChangeRequests(ctx context.Context, status *domain.ChangeRequestStatus, limit int, offset int) ([]domain.ChangeRequest, error) {
	statusFilter := ""
	if status != nil {
		statusFilter = string(*status)
	}
	query := `
        SELECT ` + changeRequestColumns + `
        FROM change_requests
        WHERE ($1 = '' OR status = $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.Pool.Query(ctx, query, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query change requests: %w", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var requests []domain.ChangeRequest
	for rows.Next() {
		m, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan change request row: %w", apperrors.ErrPersistence, err)
		}
		requests = append(requests, toDomainChangeRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate change request rows: %w", apperrors.ErrPersistence, err)
	}
	return requests, nil
}

func (r *PgxChangeRequestRepository) SaveChangeRequest(ctx context.Context, request domain.ChangeRequest) error {
	m := toModelChangeRequest(request)
	query := `
        INSERT INTO change_requests (` + changeRequestColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.TargetKind,
		m.TargetID,
		m.Action,
		m.Payload,
		m.Status,
		m.Note,
		m.DecidedBy,
		m.DecidedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("change request %s already exists: %w", request.RequestID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to save change request: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *PgxChangeRequestRepository) UpdateChangeRequestDecision(ctx context.Context, request domain.ChangeRequest) error {
	m := toModelChangeRequest(request)
	query := `
        UPDATE change_requests
        SET status = $2, note = $3, decided_by = $4, decided_at = $5, target_id = $6, last_updated_at = $7, last_updated_by = $8
        WHERE request_id = $1;
    `
	tag, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.Status,
		m.Note,
		m.DecidedBy,
		m.DecidedAt,
		m.TargetID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update change request %s: %w", apperrors.ErrPersistence, request.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

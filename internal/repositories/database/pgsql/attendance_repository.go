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

type PgxAttendanceRepository struct {
	db *pgxpool.Pool
}

func newPgxAttendanceRepository(db *pgxpool.Pool) portsrepo.AttendanceRepositoryFacade {
	return &PgxAttendanceRepository{db: db}
}

var _ portsrepo.AttendanceRepositoryFacade = (*PgxAttendanceRepository)(nil)

func toModelAttendance(d domain.Attendance) models.Attendance {
	m := models.Attendance{
		AttendanceID: d.AttendanceID,
		CourierID:    d.CourierID,
		Day:          d.Day,
		Status:       string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.CheckInAt != nil {
		m.CheckInAt = sql.NullTime{Time: *d.CheckInAt, Valid: true}
	}
	if d.CheckOutAt != nil {
		m.CheckOutAt = sql.NullTime{Time: *d.CheckOutAt, Valid: true}
	}
	return m
}

func toDomainAttendance(m models.Attendance) domain.Attendance {
	d := domain.Attendance{
		AttendanceID: m.AttendanceID,
		CourierID:    m.CourierID,
		Day:          m.Day,
		Status:       domain.AttendanceStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.CheckInAt.Valid {
		checkInAt := m.CheckInAt.Time
		d.CheckInAt = &checkInAt
	}
	if m.CheckOutAt.Valid {
		checkOutAt := m.CheckOutAt.Time
		d.CheckOutAt = &checkOutAt
	}
	return d
}

const attendanceColumns = `attendance_id, courier_id, day, check_in_at, check_out_at, status, created_at, created_by, last_updated_at, last_updated_by`

func scanAttendance(row pgx.Row) (models.Attendance, error) {
	var m models.Attendance
	err := row.Scan(
		&m.AttendanceID,
		&m.CourierID,
		&m.Day,
		&m.CheckInAt,
		&m.CheckOutAt,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAttendanceRepository) FindAttendance(ctx context.Context, courierID string, day string) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE courier_id = $1 AND day = $2;`
	m, err := scanAttendance(r.db.QueryRow(ctx, query, courierID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find attendance for courier %s on %s: %w", apperrors.ErrPersistence, courierID, day, err)
	}
	d := toDomainAttendance(m)
	return &d, nil
}

func (r *PgxAttendanceRepository) ListAttendanceByCourier(ctx context.Context, courierID string, fromDay, toDay string, limit int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 31
	}

	query := `
        SELECT ` + attendanceColumns + `
        FROM attendance
        WHERE courier_id = $1
          AND ($2 = '' OR day >= $2)
          AND ($3 = '' OR day <= $3)
        ORDER BY day DESC
        LIMIT $4;
    `
	rows, err := r.db.Query(ctx, query, courierID, fromDay, toDay, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query attendance: %w", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.Attendance
	for rows.Next() {
		m, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan attendance row: %w", apperrors.ErrPersistence, err)
		}
		records = append(records, toDomainAttendance(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate attendance rows: %w", apperrors.ErrPersistence, err)
	}
	return records, nil
}

func (r *PgxAttendanceRepository) ListCourierIDsWithAttendance(ctx context.Context, day string) ([]string, error) {
	query := `SELECT courier_id FROM attendance WHERE day = $1;`
	rows, err := r.db.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query attendance for day %s: %w", apperrors.ErrPersistence, day, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan courier ID: %w", apperrors.ErrPersistence, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate attendance rows: %w", apperrors.ErrPersistence, err)
	}
	return ids, nil
}

func (r *PgxAttendanceRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) error {
	m := toModelAttendance(attendance)
	query := `
        INSERT INTO attendance (attendance_id, courier_id, day, check_in_at, check_out_at, status, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		m.AttendanceID,
		m.CourierID,
		m.Day,
		m.CheckInAt,
		m.CheckOutAt,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("attendance already recorded for courier %s on %s: %w", m.CourierID, m.Day, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to save attendance: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *PgxAttendanceRepository) UpdateAttendance(ctx context.Context, attendance domain.Attendance) error {
	m := toModelAttendance(attendance)
	query := `
        UPDATE attendance
        SET check_in_at = $2, check_out_at = $3, status = $4, last_updated_at = $5, last_updated_by = $6
        WHERE attendance_id = $1;
    `
	tag, err := r.db.Exec(ctx, query,
		m.AttendanceID,
		m.CheckInAt,
		m.CheckOutAt,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update attendance %s: %w", apperrors.ErrPersistence, m.AttendanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

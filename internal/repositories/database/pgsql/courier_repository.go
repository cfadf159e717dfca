package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	"github.com/KurirHub/courier_management_app/internal/models"
)

type PgxCourierRepository struct {
	db *pgxpool.Pool
}

func newPgxCourierRepository(db *pgxpool.Pool) portsrepo.CourierRepositoryFacade {
	return &PgxCourierRepository{db: db}
}

var _ portsrepo.CourierRepositoryFacade = (*PgxCourierRepository)(nil)

func toDomainCourier(m models.Courier) domain.Courier {
	return domain.Courier{
		CourierID:   m.CourierID,
		UserID:      m.UserID,
		Name:        m.Name,
		CourierCode: m.CourierCode,
		Phone:       m.Phone,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainPIC(m models.PIC) domain.PIC {
	return domain.PIC{
		PICID:    m.PICID,
		UserID:   m.UserID,
		Name:     m.Name,
		JobTitle: m.JobTitle,
		Phone:    m.Phone,
		IsActive: m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const courierColumns = `courier_id, user_id, name, courier_code, phone, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCourier(row pgx.Row) (models.Courier, error) {
	var m models.Courier
	err := row.Scan(
		&m.CourierID,
		&m.UserID,
		&m.Name,
		&m.CourierCode,
		&m.Phone,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCourierRepository) FindCourierByID(ctx context.Context, courierID string) (*domain.Courier, error) {
	query := `SELECT ` + courierColumns + ` FROM couriers WHERE courier_id = $1;`
	m, err := scanCourier(r.db.QueryRow(ctx, query, courierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find courier by ID %s: %w", apperrors.ErrPersistence, courierID, err)
	}
	d := toDomainCourier(m)
	return &d, nil
}

func (r *PgxCourierRepository) FindCourierByUserID(ctx context.Context, userID string) (*domain.Courier, error) {
	query := `SELECT ` + courierColumns + ` FROM couriers WHERE user_id = $1;`
	m, err := scanCourier(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find courier by user ID %s: %w", apperrors.ErrPersistence, userID, err)
	}
	d := toDomainCourier(m)
	return &d, nil
}

func (r *PgxCourierRepository) ListCouriers(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.Courier, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + courierColumns + `
        FROM couriers
        WHERE ($3 = false OR is_active)
        ORDER BY courier_code
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.db.Query(ctx, query, limit, offset, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query couriers: %w", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var couriers []domain.Courier
	for rows.Next() {
		m, err := scanCourier(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan courier row: %w", apperrors.ErrPersistence, err)
		}
		couriers = append(couriers, toDomainCourier(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate courier rows: %w", apperrors.ErrPersistence, err)
	}
	return couriers, nil
}

func (r *PgxCourierRepository) SaveCourier(ctx context.Context, courier domain.Courier) error {
	query := `
        INSERT INTO couriers (courier_id, user_id, name, courier_code, phone, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		courier.CourierID,
		courier.UserID,
		courier.Name,
		courier.CourierCode,
		courier.Phone,
		courier.IsActive,
		courier.CreatedAt,
		courier.CreatedBy,
		courier.LastUpdatedAt,
		courier.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("courier code already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to save courier: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *PgxCourierRepository) UpdateCourier(ctx context.Context, courier domain.Courier) error {
	query := `
        UPDATE couriers
        SET name = $2, courier_code = $3, phone = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
        WHERE courier_id = $1;
    `
	tag, err := r.db.Exec(ctx, query,
		courier.CourierID,
		courier.Name,
		courier.CourierCode,
		courier.Phone,
		courier.IsActive,
		courier.LastUpdatedAt,
		courier.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("courier code already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%w: failed to update courier %s: %w", apperrors.ErrPersistence, courier.CourierID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const picColumns = `pic_id, user_id, name, job_title, phone, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanPIC(row pgx.Row) (models.PIC, error) {
	var m models.PIC
	err := row.Scan(
		&m.PICID,
		&m.UserID,
		&m.Name,
		&m.JobTitle,
		&m.Phone,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCourierRepository) FindPICByID(ctx context.Context, picID string) (*domain.PIC, error) {
	query := `SELECT ` + picColumns + ` FROM pics WHERE pic_id = $1;`
	m, err := scanPIC(r.db.QueryRow(ctx, query, picID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find PIC by ID %s: %w", apperrors.ErrPersistence, picID, err)
	}
	d := toDomainPIC(m)
	return &d, nil
}

func (r *PgxCourierRepository) ListPICs(ctx context.Context, limit int, offset int) ([]domain.PIC, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + picColumns + `
        FROM pics
        ORDER BY name
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query PICs: %w", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var pics []domain.PIC
	for rows.Next() {
		m, err := scanPIC(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan PIC row: %w", apperrors.ErrPersistence, err)
		}
		pics = append(pics, toDomainPIC(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate PIC rows: %w", apperrors.ErrPersistence, err)
	}
	return pics, nil
}

func (r *PgxCourierRepository) SavePIC(ctx context.Context, pic domain.PIC) error {
	query := `
        INSERT INTO pics (pic_id, user_id, name, job_title, phone, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		pic.PICID,
		pic.UserID,
		pic.Name,
		pic.JobTitle,
		pic.Phone,
		pic.IsActive,
		pic.CreatedAt,
		pic.CreatedBy,
		pic.LastUpdatedAt,
		pic.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save PIC: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *PgxCourierRepository) UpdatePIC(ctx context.Context, pic domain.PIC) error {
	query := `
        UPDATE pics
        SET name = $2, phone = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
        WHERE pic_id = $1;
    `
	tag, err := r.db.Exec(ctx, query,
		pic.PICID,
		pic.Name,
		pic.Phone,
		pic.IsActive,
		pic.LastUpdatedAt,
		pic.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update PIC %s: %w", apperrors.ErrPersistence, pic.PICID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

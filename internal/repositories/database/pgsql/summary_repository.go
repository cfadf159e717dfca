package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	"github.com/KurirHub/courier_management_app/internal/models"
	"github.com/KurirHub/courier_management_app/internal/utils/pagination"
)

type PgxSummaryRepository struct {
	BaseRepository
}

func newPgxSummaryRepository(db *pgxpool.Pool) portsrepo.SummaryRepositoryFacade {
	return &PgxSummaryRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SummaryRepositoryFacade = (*PgxSummaryRepository)(nil)

func toDomainSummary(m models.DailySummary) domain.DailySummary {
	return domain.DailySummary{
		CourierID:                m.CourierID,
		Day:                      m.Day,
		PackagesCarried:          m.PackagesCarried,
		PackagesDelivered:        m.PackagesDelivered,
		PackagesFailedOrReturned: m.PackagesFailedOrReturned,
		SuccessRate:              m.SuccessRate,
		FinalizedAt:              m.FinalizedAt,
	}
}

const summaryColumns = `courier_id, day, packages_carried, packages_delivered, packages_failed_or_returned, success_rate, finalized_at`

func scanSummary(row pgx.Row) (models.DailySummary, error) {
	var m models.DailySummary
	err := row.Scan(
		&m.CourierID,
		&m.Day,
		&m.PackagesCarried,
		&m.PackagesDelivered,
		&m.PackagesFailedOrReturned,
		&m.SuccessRate,
		&m.FinalizedAt,
	)
	return m, err
}

func (r *PgxSummaryRepository) FindSummary(ctx context.Context, courierID string, day string) (*domain.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE courier_id = $1 AND day = $2;`
	m, err := scanSummary(r.Pool.QueryRow(ctx, query, courierID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find summary for courier %s on %s: %w", apperrors.ErrPersistence, courierID, day, err)
	}
	d := toDomainSummary(m)
	return &d, nil
}

// ListSummariesByCourier pages through a courier's summaries newest day
// first, using the day key as the keyset cursor.
func (r *PgxSummaryRepository) ListSummariesByCourier(ctx context.Context, courierID string, fromDay, toDay string, limit int, nextToken *string) ([]domain.DailySummary, *string, error) {
	cursorDay := ""
	if nextToken != nil && *nextToken != "" {
		decoded, err := pagination.DecodeDayToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		cursorDay = decoded
	}

	query := `
        SELECT ` + summaryColumns + `
        FROM daily_summaries
        WHERE courier_id = $1
          AND ($2 = '' OR day >= $2)
          AND ($3 = '' OR day <= $3)
          AND ($4 = '' OR day < $4)
        ORDER BY day DESC
        LIMIT $5;
    `
	rows, err := r.Pool.Query(ctx, query, courierID, fromDay, toDay, cursorDay, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to query summaries for courier %s: %w", apperrors.ErrPersistence, courierID, err)
	}
	defer rows.Close()

	var summaries []domain.DailySummary
	for rows.Next() {
		m, err := scanSummary(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: failed to scan summary row: %w", apperrors.ErrPersistence, err)
		}
		summaries = append(summaries, toDomainSummary(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to iterate summary rows: %w", apperrors.ErrPersistence, err)
	}

	var newNextToken *string
	if len(summaries) > limit {
		summaries = summaries[:limit]
		token := pagination.EncodeDayToken(summaries[limit-1].Day)
		newNextToken = &token
	}
	return summaries, newNextToken, nil
}

// summaryExecer is satisfied by both the pool and an open transaction, so the
// finalize transaction can reuse the same upsert.
type summaryExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func upsertSummary(ctx context.Context, db summaryExecer, summary domain.DailySummary) error {
	query := `
        INSERT INTO daily_summaries (` + summaryColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (courier_id, day) DO UPDATE SET
            packages_carried = EXCLUDED.packages_carried,
            packages_delivered = EXCLUDED.packages_delivered,
            packages_failed_or_returned = EXCLUDED.packages_failed_or_returned,
            success_rate = EXCLUDED.success_rate,
            finalized_at = EXCLUDED.finalized_at;
    `
	_, err := db.Exec(ctx, query,
		summary.CourierID,
		summary.Day,
		summary.PackagesCarried,
		summary.PackagesDelivered,
		summary.PackagesFailedOrReturned,
		summary.SuccessRate,
		summary.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert summary for courier %s on %s: %w", apperrors.ErrPersistence, summary.CourierID, summary.Day, err)
	}
	return nil
}

func (r *PgxSummaryRepository) UpsertSummary(ctx context.Context, summary domain.DailySummary) error {
	return upsertSummary(ctx, r.Pool, summary)
}

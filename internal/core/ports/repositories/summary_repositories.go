package repositories

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// SummaryReader defines read operations for daily summaries
type SummaryReader interface {
	// FindSummary retrieves the daily summary for a courier on a day.
	FindSummary(ctx context.Context, courierID string, day string) (*domain.DailySummary, error)

	// ListSummariesByCourier retrieves summaries for a courier in a day range, newest first.
	ListSummariesByCourier(ctx context.Context, courierID string, fromDay, toDay string, limit int, nextToken *string) ([]domain.DailySummary, *string, error)
}

// SummaryWriter defines write operations for daily summaries
type SummaryWriter interface {
	// UpsertSummary writes a summary keyed by (day, courier), overwriting any
	// prior row for the same key.
	UpsertSummary(ctx context.Context, summary domain.DailySummary) error
}

// SummaryRepositoryFacade combines all summary-related repository interfaces
type SummaryRepositoryFacade interface {
	SummaryReader
	SummaryWriter
}

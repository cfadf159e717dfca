package services

import (
	"context"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// StatsReaderSvc defines read operations over finalized daily summaries
type StatsReaderSvc interface {
	// GetSummary retrieves a single finalized daily summary.
	GetSummary(ctx context.Context, courierID string, day string) (*domain.DailySummary, error)

	// ListSummaries retrieves a courier's summary history, newest first.
	ListSummaries(ctx context.Context, courierID string, params dto.ListSummariesParams) (*dto.ListSummariesResponse, error)

	// GetCourierStats aggregates a courier's summaries over a day range.
	GetCourierStats(ctx context.Context, courierID string, fromDay, toDay string) (*dto.CourierStatsResponse, error)
}

// StatsCacheInvalidator drops cached aggregates after a day is finalized
type StatsCacheInvalidator interface {
	// InvalidateCourier removes any cached stats for the courier.
	InvalidateCourier(ctx context.Context, courierID string) error
}

// StatsSvcFacade combines all stats-related service interfaces
type StatsSvcFacade interface {
	StatsReaderSvc
	StatsCacheInvalidator
}

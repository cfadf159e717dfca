package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
)

// ErrBadDayRange rejects malformed or inverted day-range filters.
var ErrBadDayRange = fmt.Errorf("%w: invalid day range", apperrors.ErrValidation)

const (
	statsCacheTTL       = 5 * time.Minute
	statsKeyPrefix      = "stats:courier:"
	maxSummaryPageLimit = 100
)

// StatsCache is the cache surface the stats service needs. Implemented by
// platform/cache/rediscache.
type StatsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// statsService serves finalized daily summaries and cached per-courier
// aggregates.
type statsService struct {
	BaseService
	summaryRepo portsrepo.SummaryRepositoryFacade
	cache       StatsCache
}

// NewStatsService creates a new stats service. cache may be nil, in which
// case every read goes to the repository.
func NewStatsService(summaryRepo portsrepo.SummaryRepositoryFacade, cache StatsCache) portssvc.StatsSvcFacade {
	return &statsService{summaryRepo: summaryRepo, cache: cache}
}

var _ portssvc.StatsSvcFacade = (*statsService)(nil)

func validDay(day string) bool {
	_, err := time.Parse(domain.DayFormat, day)
	return err == nil
}

func validateDayRange(fromDay, toDay string) error {
	if fromDay != "" && !validDay(fromDay) {
		return fmt.Errorf("%w: from=%q", ErrBadDayRange, fromDay)
	}
	if toDay != "" && !validDay(toDay) {
		return fmt.Errorf("%w: to=%q", ErrBadDayRange, toDay)
	}
	if fromDay != "" && toDay != "" && fromDay > toDay {
		return fmt.Errorf("%w: from is after to", ErrBadDayRange)
	}
	return nil
}

// GetSummary retrieves a single finalized daily summary.
func (s *statsService) GetSummary(ctx context.Context, courierID string, day string) (*domain.DailySummary, error) {
	if !validDay(day) {
		return nil, fmt.Errorf("%w: day=%q", ErrBadDayRange, day)
	}
	summary, err := s.summaryRepo.FindSummary(ctx, courierID, day)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get daily summary", slog.String("courier_id", courierID), slog.String("day", day))
		}
		return nil, err
	}
	return summary, nil
}

// ListSummaries retrieves a courier's summary history, newest first.
func (s *statsService) ListSummaries(ctx context.Context, courierID string, params dto.ListSummariesParams) (*dto.ListSummariesResponse, error) {
	if err := validateDayRange(params.FromDay, params.ToDay); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > maxSummaryPageLimit {
		limit = maxSummaryPageLimit
	}

	summaries, nextToken, err := s.summaryRepo.ListSummariesByCourier(ctx, courierID, params.FromDay, params.ToDay, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list summaries", slog.String("courier_id", courierID))
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	resp := &dto.ListSummariesResponse{
		Summaries: make([]dto.SummaryResponse, len(summaries)),
		NextToken: nextToken,
	}
	for i := range summaries {
		resp.Summaries[i] = dto.ToSummaryResponse(&summaries[i])
	}
	return resp, nil
}

// GetCourierStats aggregates a courier's summaries over a day range. Results
// are cached per courier and dropped on finalization.
func (s *statsService) GetCourierStats(ctx context.Context, courierID string, fromDay, toDay string) (*dto.CourierStatsResponse, error) {
	if err := validateDayRange(fromDay, toDay); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%s", statsKeyPrefix, courierID, fromDay, toDay)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var resp dto.CourierStatsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			// Unparseable entries are treated as misses.
		}
	}

	resp := &dto.CourierStatsResponse{CourierID: courierID}
	var nextToken *string
	for {
		summaries, token, err := s.summaryRepo.ListSummariesByCourier(ctx, courierID, fromDay, toDay, maxSummaryPageLimit, nextToken)
		if err != nil {
			s.LogError(ctx, err, "Failed to aggregate courier stats", slog.String("courier_id", courierID))
			return nil, fmt.Errorf("failed to aggregate courier stats: %w", err)
		}
		for i := range summaries {
			resp.Days++
			resp.PackagesCarried += summaries[i].PackagesCarried
			resp.PackagesDelivered += summaries[i].PackagesDelivered
			resp.PackagesFailedOrReturned += summaries[i].PackagesFailedOrReturned
		}
		if token == nil {
			break
		}
		nextToken = token
	}

	attempted := resp.PackagesDelivered + resp.PackagesFailedOrReturned
	if attempted == 0 {
		resp.OverallSuccessRate = decimal.Zero
	} else {
		resp.OverallSuccessRate = decimal.NewFromInt(int64(resp.PackagesDelivered)).
			Div(decimal.NewFromInt(int64(attempted))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), statsCacheTTL); err != nil {
				s.LogWarn(ctx, "Failed to cache courier stats", slog.String("courier_id", courierID), slog.String("error", err.Error()))
			}
		}
	}
	return resp, nil
}

// InvalidateCourier removes any cached stats for the courier.
func (s *statsService) InvalidateCourier(ctx context.Context, courierID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteByPrefix(ctx, statsKeyPrefix+courierID+":"); err != nil {
		return fmt.Errorf("failed to invalidate courier stats cache: %w", err)
	}
	return nil
}

package dto

import (
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListSummariesParams defines query parameters for summary history.
type ListSummariesParams struct {
	FromDay   string  `form:"from" binding:"omitempty,daykey"` // Inclusive; empty means unbounded
	ToDay     string  `form:"to" binding:"omitempty,daykey"`   // Inclusive; empty means unbounded
	Limit     int     `form:"limit,default=31"`
	NextToken *string `form:"nextToken"`
}

// SummaryResponse is the API representation of a finalized daily summary.
type SummaryResponse struct {
	CourierID                string          `json:"courierID"`
	Day                      string          `json:"day"`
	PackagesCarried          int             `json:"packagesCarried"`
	PackagesDelivered        int             `json:"packagesDelivered"`
	PackagesFailedOrReturned int             `json:"packagesFailedOrReturned"`
	SuccessRate              decimal.Decimal `json:"successRate"`
	FinalizedAt              time.Time       `json:"finalizedAt"`
}

// ToSummaryResponse converts a domain.DailySummary to its DTO.
func ToSummaryResponse(s *domain.DailySummary) SummaryResponse {
	return SummaryResponse{
		CourierID:                s.CourierID,
		Day:                      s.Day,
		PackagesCarried:          s.PackagesCarried,
		PackagesDelivered:        s.PackagesDelivered,
		PackagesFailedOrReturned: s.PackagesFailedOrReturned,
		SuccessRate:              s.SuccessRate,
		FinalizedAt:              s.FinalizedAt,
	}
}

// ListSummariesResponse wraps a page of daily summaries.
type ListSummariesResponse struct {
	Summaries []SummaryResponse `json:"summaries"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// CourierStatsResponse aggregates a courier's summaries over a day range.
type CourierStatsResponse struct {
	CourierID                string          `json:"courierID"`
	Days                     int             `json:"days"`
	PackagesCarried          int             `json:"packagesCarried"`
	PackagesDelivered        int             `json:"packagesDelivered"`
	PackagesFailedOrReturned int             `json:"packagesFailedOrReturned"`
	OverallSuccessRate       decimal.Decimal `json:"overallSuccessRate"`
}

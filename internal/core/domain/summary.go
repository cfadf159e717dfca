package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the immutable historical record produced by finalizing a
// courier's day. It is keyed by (day, courier) and overwritten on
// re-finalization (last-write-wins).
type DailySummary struct {
	CourierID                string          `json:"courierID"`
	Day                      string          `json:"day"` // Calendar day key, DayFormat
	PackagesCarried          int             `json:"packagesCarried"`
	PackagesDelivered        int             `json:"packagesDelivered"`
	PackagesFailedOrReturned int             `json:"packagesFailedOrReturned"`
	SuccessRate              decimal.Decimal `json:"successRate"` // Percentage over attempted
	FinalizedAt              time.Time       `json:"finalizedAt"`
}

// ComputeSuccessRate returns delivered/attempted as a percentage rounded to
// one decimal place, or zero when nothing was attempted.
func ComputeSuccessRate(delivered, failedOrReturned int) decimal.Decimal {
	attempted := delivered + failedOrReturned
	if attempted == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(delivered)).
		Div(decimal.NewFromInt(int64(attempted))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the database representation of a finalized day.
// (courier_id, day) is the primary key; rows are overwritten on
// re-finalization.
type DailySummary struct {
	CourierID                string          `db:"courier_id"`
	Day                      string          `db:"day"`
	PackagesCarried          int             `db:"packages_carried"`
	PackagesDelivered        int             `db:"packages_delivered"`
	PackagesFailedOrReturned int             `db:"packages_failed_or_returned"`
	SuccessRate              decimal.Decimal `db:"success_rate"`
	FinalizedAt              time.Time       `db:"finalized_at"`
}

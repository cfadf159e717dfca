package domain

import (
	"strings"
	"time"
)

// ParcelStatus is the closed set of parcel lifecycle states.
type ParcelStatus string

const (
	ParcelProcessing     ParcelStatus = "PROCESSING"
	ParcelOutForDelivery ParcelStatus = "OUT_FOR_DELIVERY"
	ParcelDelivered      ParcelStatus = "DELIVERED"
	ParcelFailed         ParcelStatus = "FAILED"
	ParcelPendingReturn  ParcelStatus = "PENDING_RETURN"
	ParcelReturned       ParcelStatus = "RETURNED"
)

// Parcel is one tracked package within a courier's daily delivery session.
// The tracking number is unique within the owning day's registry; which of the
// optional fields must be present is enforced by the transition engine, not here.
type Parcel struct {
	TrackingNumber string       `json:"trackingNumber"` // Case-normalized upper
	Status         ParcelStatus `json:"status"`
	IsCOD          bool         `json:"isCOD"`
	ProofPhotoURL  string       `json:"proofPhotoURL,omitempty"`
	RecipientName  string       `json:"recipientName,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NormalizeTrackingNumber canonicalizes a scanned or typed tracking number.
func NormalizeTrackingNumber(resi string) string {
	return strings.ToUpper(strings.TrimSpace(resi))
}

// statusTransition is a single allowed edge in the parcel state machine.
type statusTransition struct {
	From ParcelStatus
	To   ParcelStatus
}

var transitionTable = []statusTransition{
	{From: ParcelProcessing, To: ParcelOutForDelivery},
	{From: ParcelOutForDelivery, To: ParcelDelivered},
	{From: ParcelOutForDelivery, To: ParcelFailed},
	{From: ParcelOutForDelivery, To: ParcelPendingReturn},
	{From: ParcelFailed, To: ParcelReturned},
	{From: ParcelPendingReturn, To: ParcelReturned},
}

// CanTransition reports whether from → to is a legal edge of the state machine.
func CanTransition(from, to ParcelStatus) bool {
	for _, tr := range transitionTable {
		if tr.From == from && tr.To == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave the given status.
func (s ParcelStatus) IsTerminal() bool {
	return s == ParcelDelivered || s == ParcelReturned
}

// IsResolved reports whether the parcel needs no further courier action before
// the day can be finalized.
func (s ParcelStatus) IsResolved() bool {
	switch s {
	case ParcelDelivered, ParcelReturned:
		return true
	default:
		return false
	}
}

// CountsAsFailed reports whether the status belongs to the failed/returned
// bucket of the daily summary. PendingReturn is merged with Failed for
// aggregate counting.
func (s ParcelStatus) CountsAsFailed() bool {
	switch s {
	case ParcelFailed, ParcelPendingReturn, ParcelReturned:
		return true
	default:
		return false
	}
}

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s ParcelStatus) bool {
	switch s {
	case ParcelProcessing, ParcelOutForDelivery, ParcelDelivered, ParcelFailed, ParcelPendingReturn, ParcelReturned:
		return true
	default:
		return false
	}
}

package domain

import "time"

// Manifest is a courier's one-time daily declaration of parcel counts.
// Intake is only allowed while the manifest is submitted (locked); a revise
// action reopens it without touching already-registered parcels.
type Manifest struct {
	TotalDeclared  int        `json:"totalDeclared"`
	CODDeclared    int        `json:"codDeclared"`
	NonCODDeclared int        `json:"nonCodDeclared"`
	Submitted      bool       `json:"submitted"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}

// DeliverySession is the single-courier, single-day aggregate owning the
// manifest and the parcel registry. Parcels are held most-recent-first.
type DeliverySession struct {
	SessionID string   `json:"sessionID"` // Primary Key (UUID)
	CourierID string   `json:"courierID"`
	Day       string   `json:"day"` // Calendar day key, DayFormat
	Manifest  Manifest `json:"manifest"`
	Parcels   []Parcel `json:"parcels"`
	Finalized bool     `json:"finalized"`
	AuditFields
}

// FindParcel returns the parcel with the given (already normalized) tracking
// number and its registry index, or nil and -1.
func (s *DeliverySession) FindParcel(trackingNumber string) (*Parcel, int) {
	for i := range s.Parcels {
		if s.Parcels[i].TrackingNumber == trackingNumber {
			return &s.Parcels[i], i
		}
	}
	return nil, -1
}

// CountByStatus tallies the registry by parcel status.
func (s *DeliverySession) CountByStatus() map[ParcelStatus]int {
	counts := make(map[ParcelStatus]int, len(s.Parcels))
	for i := range s.Parcels {
		counts[s.Parcels[i].Status]++
	}
	return counts
}

// DeliveryActionsEnabled reports whether delivered/failed marking is allowed:
// the manifest must be submitted, every declared parcel must be scanned, and
// none may still be in processing. Intake is effectively locked once this holds.
func (s *DeliverySession) DeliveryActionsEnabled() bool {
	if !s.Manifest.Submitted {
		return false
	}
	if len(s.Parcels) != s.Manifest.TotalDeclared {
		return false
	}
	for i := range s.Parcels {
		if s.Parcels[i].Status == ParcelProcessing {
			return false
		}
	}
	return true
}

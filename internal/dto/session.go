package dto

import (
	"time"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// SubmitManifestRequest declares the day's parcel counts.
type SubmitManifestRequest struct {
	TotalDeclared  int `json:"totalDeclared" binding:"required,gt=0"`
	CODDeclared    int `json:"codDeclared" binding:"min=0"`
	NonCODDeclared int `json:"nonCodDeclared" binding:"min=0"`
}

// RegisterParcelRequest scans one parcel into today's registry.
type RegisterParcelRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
	IsCOD          bool   `json:"isCOD"`
}

// UpdateRecipientRequest sets the recipient name on a parcel.
type UpdateRecipientRequest struct {
	RecipientName string `json:"recipientName" binding:"required"`
}

// TransitionRequest moves a parcel to a target status. Proof and recipient
// are required depending on the edge; the transition engine enforces that.
type TransitionRequest struct {
	TrackingNumber string              `json:"trackingNumber" binding:"required"`
	TargetStatus   domain.ParcelStatus `json:"targetStatus" binding:"required"`
	ProofPhotoURL  string              `json:"proofPhotoURL"`
	RecipientName  string              `json:"recipientName"`
}

// ParcelResponse is the API representation of a parcel.
type ParcelResponse struct {
	TrackingNumber string              `json:"trackingNumber"`
	Status         domain.ParcelStatus `json:"status"`
	IsCOD          bool                `json:"isCOD"`
	ProofPhotoURL  string              `json:"proofPhotoURL,omitempty"`
	RecipientName  string              `json:"recipientName,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// ToParcelResponse converts a domain.Parcel to its DTO.
func ToParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		TrackingNumber: p.TrackingNumber,
		Status:         p.Status,
		IsCOD:          p.IsCOD,
		ProofPhotoURL:  p.ProofPhotoURL,
		RecipientName:  p.RecipientName,
		CreatedAt:      p.CreatedAt,
	}
}

// ManifestResponse is the API representation of the daily manifest.
type ManifestResponse struct {
	TotalDeclared  int        `json:"totalDeclared"`
	CODDeclared    int        `json:"codDeclared"`
	NonCODDeclared int        `json:"nonCodDeclared"`
	Submitted      bool       `json:"submitted"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}

// SessionResponse is the API representation of a daily delivery session.
type SessionResponse struct {
	SessionID             string           `json:"sessionID"`
	CourierID             string           `json:"courierID"`
	Day                   string           `json:"day"`
	Manifest              ManifestResponse `json:"manifest"`
	Parcels               []ParcelResponse `json:"parcels"`
	DeliveryActionsActive bool             `json:"deliveryActionsActive"`
	Finalized             bool             `json:"finalized"`
}

// ToSessionResponse converts a domain.DeliverySession to its DTO.
func ToSessionResponse(s *domain.DeliverySession) SessionResponse {
	parcels := make([]ParcelResponse, len(s.Parcels))
	for i := range s.Parcels {
		parcels[i] = ToParcelResponse(&s.Parcels[i])
	}
	return SessionResponse{
		SessionID: s.SessionID,
		CourierID: s.CourierID,
		Day:       s.Day,
		Manifest: ManifestResponse{
			TotalDeclared:  s.Manifest.TotalDeclared,
			CODDeclared:    s.Manifest.CODDeclared,
			NonCODDeclared: s.Manifest.NonCODDeclared,
			Submitted:      s.Manifest.Submitted,
			SubmittedAt:    s.Manifest.SubmittedAt,
		},
		Parcels:               parcels,
		DeliveryActionsActive: s.DeliveryActionsEnabled(),
		Finalized:             s.Finalized,
	}
}

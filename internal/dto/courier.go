package dto

import (
	"github.com/KurirHub/courier_management_app/internal/core/domain"
)

// CourierPayload is the proposed field set carried inside a courier change
// request. For UPDATE actions, nil pointers mean "leave unchanged".
type CourierPayload struct {
	Name        *string `json:"name,omitempty"`
	CourierCode *string `json:"courierCode,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"` // Used to provision the linked user on CREATE
}

// PICPayload is the proposed field set inside a PIC change request.
// The job title is fixed and not part of the payload.
type PICPayload struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ListCouriersParams defines query parameters for listing couriers.
type ListCouriersParams struct {
	Limit      int  `form:"limit,default=20"`
	Offset     int  `form:"offset,default=0"`
	ActiveOnly bool `form:"activeOnly,default=false"`
}

// CourierResponse is the API representation of a courier profile.
type CourierResponse struct {
	CourierID   string `json:"courierID"`
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	CourierCode string `json:"courierCode"`
	Phone       string `json:"phone"`
	IsActive    bool   `json:"isActive"`
}

// ToCourierResponse converts a domain.Courier to its DTO.
func ToCourierResponse(c *domain.Courier) CourierResponse {
	return CourierResponse{
		CourierID:   c.CourierID,
		UserID:      c.UserID,
		Name:        c.Name,
		CourierCode: c.CourierCode,
		Phone:       c.Phone,
		IsActive:    c.IsActive,
	}
}

// ListCouriersResponse wraps the list of courier profiles.
type ListCouriersResponse struct {
	Couriers []CourierResponse `json:"couriers"`
}

// ToListCouriersResponse converts courier profiles to the list DTO.
func ToListCouriersResponse(couriers []domain.Courier) ListCouriersResponse {
	out := make([]CourierResponse, len(couriers))
	for i := range couriers {
		out[i] = ToCourierResponse(&couriers[i])
	}
	return ListCouriersResponse{Couriers: out}
}

// PICResponse is the API representation of a PIC profile.
type PICResponse struct {
	PICID    string `json:"picID"`
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"isActive"`
}

// ToPICResponse converts a domain.PIC to its DTO.
func ToPICResponse(p *domain.PIC) PICResponse {
	return PICResponse{
		PICID:    p.PICID,
		UserID:   p.UserID,
		Name:     p.Name,
		JobTitle: p.JobTitle,
		Phone:    p.Phone,
		IsActive: p.IsActive,
	}
}

// ListPICsResponse wraps the list of PIC profiles.
type ListPICsResponse struct {
	PICs []PICResponse `json:"pics"`
}

// ToListPICsResponse converts PIC profiles to the list DTO.
func ToListPICsResponse(pics []domain.PIC) ListPICsResponse {
	out := make([]PICResponse, len(pics))
	for i := range pics {
		out[i] = ToPICResponse(&pics[i])
	}
	return ListPICsResponse{PICs: out}
}

package dto

import "github.com/smallbooks/bookkeeping_app/internal/core/domain"

// CreatePartnerRequest defines the payload for creating a partner.
type CreatePartnerRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER EMPLOYEE"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	TaxNumber string `json:"taxNumber"`
}

// UpdatePartnerRequest defines the payload for updating a partner.
type UpdatePartnerRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	TaxNumber *string `json:"taxNumber,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// PartnerResponse defines the data returned for a partner.
type PartnerResponse struct {
	PartnerID string `json:"partnerID"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	TaxNumber string `json:"taxNumber"`
	IsActive  bool   `json:"isActive"`
}

// ToPartnerResponse converts a domain.Partner to PartnerResponse.
func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		PartnerID: p.PartnerID,
		Kind:      string(p.Kind),
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		TaxNumber: p.TaxNumber,
		IsActive:  p.IsActive,
	}
}

// ToPartnerResponses converts a slice of domain.Partner to []PartnerResponse.
func ToPartnerResponses(partners []domain.Partner) []PartnerResponse {
	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = ToPartnerResponse(&partners[i])
	}
	return responses
}

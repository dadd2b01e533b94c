package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreatePaymentRequest defines the payload for creating a draft payment, receipt or
// transfer document.
type CreatePaymentRequest struct {
	Kind             string          `json:"kind" binding:"required,oneof=PAYMENT RECEIPT TRANSFER"`
	PartnerID        *string         `json:"partnerID,omitempty" binding:"omitempty,uuid"`
	BankAccountID    string          `json:"bankAccountID" binding:"required,uuid"`
	CounterAccountID *string         `json:"counterAccountID,omitempty" binding:"omitempty,uuid"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate      time.Time       `json:"paymentDate" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
	Reference        string          `json:"reference"`
}

// PaymentResponse defines the data returned for a payment document.
type PaymentResponse struct {
	PaymentID        string          `json:"paymentID"`
	Kind             string          `json:"kind"`
	PartnerID        *string         `json:"partnerID,omitempty"`
	BankAccountID    string          `json:"bankAccountID"`
	CounterAccountID *string         `json:"counterAccountID,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentDate      time.Time       `json:"paymentDate"`
	Status           string          `json:"status"`
	CurrencyCode     string          `json:"currencyCode"`
	Reference        string          `json:"reference"`
	JournalEntryID   *string         `json:"journalEntryID,omitempty"`
}

// ListPaymentsParams holds parameters for listing payment documents.
type ListPaymentsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse is the paginated payment listing.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:        p.PaymentID,
		Kind:             string(p.Kind),
		PartnerID:        p.PartnerID,
		BankAccountID:    p.BankAccountID,
		CounterAccountID: p.CounterAccountID,
		Amount:           p.Amount,
		PaymentDate:      p.PaymentDate,
		Status:           string(p.Status),
		CurrencyCode:     p.CurrencyCode,
		Reference:        p.Reference,
		JournalEntryID:   p.JournalEntryID,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateInvoiceLineRequest is one line of a draft invoice.
type CreateInvoiceLineRequest struct {
	ItemID      *string         `json:"itemID,omitempty" binding:"omitempty,uuid"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	TaxCode     *string         `json:"taxCode,omitempty"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// CreateInvoiceRequest defines the payload for creating a draft invoice.
// Totals are recomputed server-side from the lines.
type CreateInvoiceRequest struct {
	InvoiceNumber string                     `json:"invoiceNumber" binding:"required"`
	InvoiceType   string                     `json:"invoiceType" binding:"required,oneof=SALE PURCHASE"`
	PartnerID     string                     `json:"partnerID" binding:"required,uuid"`
	InvoiceDate   time.Time                  `json:"invoiceDate" binding:"required"`
	CurrencyCode  string                     `json:"currencyCode" binding:"required,len=3"`
	Lines         []CreateInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest replaces the mutable fields of a DRAFT invoice.
type UpdateInvoiceRequest struct {
	InvoiceDate *time.Time                 `json:"invoiceDate,omitempty"`
	PartnerID   *string                    `json:"partnerID,omitempty" binding:"omitempty,uuid"`
	Lines       []CreateInvoiceLineRequest `json:"lines,omitempty" binding:"omitempty,min=1,dive"`
}

// InvoiceLineResponse defines the data returned for an invoice line.
type InvoiceLineResponse struct {
	LineID      string          `json:"lineID"`
	ItemID      *string         `json:"itemID,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxCode     *string         `json:"taxCode,omitempty"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string                `json:"invoiceID"`
	InvoiceNumber  string                `json:"invoiceNumber"`
	InvoiceType    string                `json:"invoiceType"`
	PartnerID      string                `json:"partnerID"`
	InvoiceDate    time.Time             `json:"invoiceDate"`
	Status         string                `json:"status"`
	CurrencyCode   string                `json:"currencyCode"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxTotal       decimal.Decimal       `json:"taxTotal"`
	Total          decimal.Decimal       `json:"total"`
	JournalEntryID *string               `json:"journalEntryID,omitempty"`
	Lines          []InvoiceLineResponse `json:"lines,omitempty"`
}

// ListInvoicesParams holds parameters for listing invoices.
type ListInvoicesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is the paginated invoice listing.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			LineID:      l.LineID,
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxCode:     l.TaxCode,
			TaxAmount:   l.TaxAmount,
			Subtotal:    l.Subtotal,
		}
	}
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceType:    string(inv.InvoiceType),
		PartnerID:      inv.PartnerID,
		InvoiceDate:    inv.InvoiceDate,
		Status:         string(inv.Status),
		CurrencyCode:   inv.CurrencyCode,
		Subtotal:       inv.Subtotal,
		TaxTotal:       inv.TaxTotal,
		Total:          inv.Total,
		JournalEntryID: inv.JournalEntryID,
		Lines:          lines,
	}
}

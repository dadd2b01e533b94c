package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the closed set of business documents the posting engine
// understands. Each type maps to its own posting rule.
type DocumentType string

const (
	DocSaleInvoice     DocumentType = "SALE"
	DocPurchaseInvoice DocumentType = "PURCHASE"
	DocPayment         DocumentType = "PAYMENT"
	DocReceipt         DocumentType = "RECEIPT"
	DocTransfer        DocumentType = "TRANSFER"
)

// IsValid reports whether t is a known document type.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocSaleInvoice, DocPurchaseInvoice, DocPayment, DocReceipt, DocTransfer:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle state shared by all postable documents.
// DRAFT -> POSTED -> (PAID, invoices only, driven by external payment allocation).
type DocumentStatus string

const (
	StatusDraft  DocumentStatus = "DRAFT"
	StatusPosted DocumentStatus = "POSTED"
	StatusPaid   DocumentStatus = "PAID"
)

// Invoice is a sales or purchase invoice. Once posted it is linked 1:1 to a journal
// entry via JournalEntryID, with the entry's reference set to the invoice number.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	InvoiceType    DocumentType    `json:"invoiceType"` // SALE or PURCHASE
	PartnerID      string          `json:"partnerID"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	Status         DocumentStatus  `json:"status"`
	CurrencyCode   string          `json:"currencyCode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	Total          decimal.Decimal `json:"total"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"` // Nil while DRAFT
	Lines          []InvoiceLine   `json:"lines,omitempty"`
	AuditFields
}

// InvoiceLine is one line of goods or services on an invoice.
// Subtotal is quantity x unit price rounded half-to-even to the currency minor unit.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	ItemID      *string         `json:"itemID,omitempty"` // Optional inventory item reference
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxCode     *string         `json:"taxCode,omitempty"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Position    int             `json:"position"`
}

// Payment covers the three money-movement documents: supplier payments, customer
// receipts, and inter-account transfers. The Kind discriminates the posting rule.
type Payment struct {
	PaymentID        string          `json:"paymentID"`
	Kind             DocumentType    `json:"kind"` // PAYMENT, RECEIPT or TRANSFER
	PartnerID        *string         `json:"partnerID,omitempty"`
	BankAccountID    string          `json:"bankAccountID"`              // Source (payment/transfer) or destination (receipt)
	CounterAccountID *string         `json:"counterAccountID,omitempty"` // Direct expense/revenue account, or transfer destination
	Amount           decimal.Decimal `json:"amount"`
	PaymentDate      time.Time       `json:"paymentDate"`
	Status           DocumentStatus  `json:"status"`
	CurrencyCode     string          `json:"currencyCode"`
	Reference        string          `json:"reference"`
	JournalEntryID   *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// DocumentRef identifies a postable document and carries what the ledger writer
// needs to link the committed entry back to it.
type DocumentRef struct {
	DocumentID   string
	DocumentType DocumentType
	Reference    string // Human-readable document number used as the entry reference
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the invoices table row.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	InvoiceNumber  string          `db:"invoice_number"`
	InvoiceType    string          `db:"invoice_type"`
	PartnerID      string          `db:"partner_id"`
	InvoiceDate    time.Time       `db:"invoice_date"`
	Status         string          `db:"status"`
	CurrencyCode   string          `db:"currency_code"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	TaxTotal       decimal.Decimal `db:"tax_total"`
	Total          decimal.Decimal `db:"total"`
	JournalEntryID *string         `db:"journal_entry_id"`
	AuditFields
}

// InvoiceLine is the invoice_lines table row.
type InvoiceLine struct {
	LineID      string          `db:"line_id"`
	InvoiceID   string          `db:"invoice_id"`
	ItemID      *string         `db:"item_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxCode     *string         `db:"tax_code"`
	TaxAmount   decimal.Decimal `db:"tax_amount"`
	Subtotal    decimal.Decimal `db:"subtotal"`
	Position    int             `db:"position"`
}

// Payment is the payments table row, covering payments, receipts and transfers.
type Payment struct {
	PaymentID        string          `db:"payment_id"`
	Kind             string          `db:"kind"`
	PartnerID        *string         `db:"partner_id"`
	BankAccountID    string          `db:"bank_account_id"`
	CounterAccountID *string         `db:"counter_account_id"`
	Amount           decimal.Decimal `db:"amount"`
	PaymentDate      time.Time       `db:"payment_date"`
	Status           string          `db:"status"`
	CurrencyCode     string          `db:"currency_code"`
	Reference        string          `db:"reference"`
	JournalEntryID   *string         `db:"journal_entry_id"`
	AuditFields
}

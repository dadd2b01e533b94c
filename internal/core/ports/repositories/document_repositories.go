package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByEntryID retrieves the invoice linked to the given journal entry,
	// or apperrors.ErrNotFound if no invoice is linked to it.
	FindInvoiceByEntryID(ctx context.Context, entryID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoice headers, newest first,
	// using token-based pagination.
	ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice persists a new draft invoice and its lines in one transaction.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateDraftInvoice replaces the header fields and lines of a DRAFT invoice.
	// Returns apperrors.ErrIllegalState if the invoice is no longer a draft.
	UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error

	// DeleteDraftInvoice removes a DRAFT invoice and its lines.
	DeleteDraftInvoice(ctx context.Context, invoiceID string) error

	// MarkInvoicePaid flips the invoice from POSTED to PAID with a compare-and-set.
	// A lost race or wrong starting status surfaces apperrors.ErrConcurrency.
	MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, updatedAt time.Time) error
}

// PaymentReader defines read operations for payment-type documents.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment, receipt or transfer document.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByEntryID retrieves the payment document linked to the given
	// journal entry, or apperrors.ErrNotFound if no payment is linked to it.
	FindPaymentByEntryID(ctx context.Context, entryID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payment documents, newest first.
	ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentWriter defines write operations for payment-type documents.
type PaymentWriter interface {
	// SavePayment persists a new draft payment document.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// DeleteDraftPayment removes a DRAFT payment document.
	DeleteDraftPayment(ctx context.Context, paymentID string) error
}

// DocumentRepositoryFacade combines invoice and payment repository interfaces.
type DocumentRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	PaymentReader
	PaymentWriter
}

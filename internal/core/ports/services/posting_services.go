package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// PostingSvcFacade is the document state machine: it governs the legal status
// transitions of postable documents and drives the ledger writer (or its reverse)
// when a document is approved or unposted.
type PostingSvcFacade interface {
	// ApproveInvoice posts a DRAFT invoice: resolves its journal lines, commits a
	// balanced entry, and moves the invoice to POSTED with the entry linked.
	// Approving a non-DRAFT invoice fails with apperrors.ErrIllegalState.
	ApproveInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// UnpostInvoice reverses a posting: voids the linked entry and returns the
	// invoice to DRAFT. Legal only from POSTED; a PAID invoice must first have its
	// payment allocation reversed by the payments subsystem.
	UnpostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// MarkInvoicePaid records that a POSTED invoice has been fully allocated by the
	// payments subsystem. No ledger effect.
	MarkInvoicePaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// ApprovePayment posts a DRAFT payment, receipt or transfer document.
	ApprovePayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// UnpostPayment reverses a posted payment document back to DRAFT.
	UnpostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// PostJournalEntryForDocument is the generalization used by the document flows:
	// it dispatches on document type and posts the corresponding entry.
	PostJournalEntryForDocument(ctx context.Context, documentID string, docType domain.DocumentType, userID string) (*domain.JournalEntry, error)

	// UnpostJournalEntry voids an entry by id, reverting whichever document is
	// linked to it back to DRAFT.
	UnpostJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade validates candidate entries and commits or voids them atomically.
type LedgerSvcFacade interface {
	// PostEntry validates the draft entry (balance, line shape, minimum lines) and
	// persists it together with the document status flip as one atomic unit,
	// returning the committed entry including its assigned entry number.
	PostEntry(ctx context.Context, draft domain.DraftEntry, doc domain.DocumentRef, userID string) (*domain.JournalEntry, error)

	// VoidEntry removes a committed entry and its lines, reverting the document
	// link, as one atomic unit.
	VoidEntry(ctx context.Context, entryID string, doc domain.DocumentRef, userID string) error

	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryByReference retrieves the entry linked to a document reference.
	GetEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, newest first.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

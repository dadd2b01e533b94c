package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
	"github.com/smallbooks/bookkeeping_app/internal/platform/metrics"
)

// postingService is the document state machine. It owns the legal transitions
// DRAFT -> POSTED -> DRAFT (unpost) and POSTED -> PAID, and drives the posting rule
// resolver and the ledger writer. It never leaves a document half-transitioned: the
// status flip is part of the same storage transaction as the entry write.
type postingService struct {
	docRepo     portsrepo.DocumentRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	itemRepo    portsrepo.ItemRepositoryFacade
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewPostingService creates the document state machine service.
func NewPostingService(
	docRepo portsrepo.DocumentRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		docRepo:     docRepo,
		accountRepo: accountRepo,
		itemRepo:    itemRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// resolverInputFor assembles the read-only reference data the resolver needs:
// the role mappings plus the chart lookup for every account the document can touch.
func (s *postingService) resolverInputFor(ctx context.Context, extraAccountIDs []string, itemIDs []string) (ResolverInput, error) {
	mappings, err := s.accountRepo.FindAccountMappings(ctx)
	if err != nil {
		return ResolverInput{}, fmt.Errorf("failed to load account mappings: %w", err)
	}

	items := map[string]domain.Item{}
	if len(itemIDs) > 0 {
		items, err = s.itemRepo.FindItemsByIDs(ctx, itemIDs)
		if err != nil {
			return ResolverInput{}, fmt.Errorf("failed to load items: %w", err)
		}
	}

	accountIDs := make([]string, 0, len(mappings)+len(extraAccountIDs)+len(items))
	for _, id := range mappings {
		accountIDs = append(accountIDs, id)
	}
	accountIDs = append(accountIDs, extraAccountIDs...)
	for _, item := range items {
		if item.ExpenseAccountID != nil {
			accountIDs = append(accountIDs, *item.ExpenseAccountID)
		}
		if item.RevenueAccountID != nil {
			accountIDs = append(accountIDs, *item.RevenueAccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return ResolverInput{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	return ResolverInput{Mappings: mappings, Accounts: accounts, Items: items}, nil
}

// postInvoice resolves and commits the entry for a DRAFT invoice.
func (s *postingService) postInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv.Status != domain.StatusDraft {
		return nil, nil, fmt.Errorf("%w: invoice %s is already posted (status %s)",
			apperrors.ErrIllegalState, inv.InvoiceNumber, inv.Status)
	}

	itemIDs := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		if l.ItemID != nil {
			itemIDs = append(itemIDs, *l.ItemID)
		}
	}
	input, err := s.resolverInputFor(ctx, nil, uniqueStrings(itemIDs))
	if err != nil {
		return nil, nil, err
	}

	lines, err := ResolveInvoiceLines(*inv, input)
	if err != nil {
		logger.Warn("Invoice posting rules failed",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	verb := "Sales"
	if inv.InvoiceType == domain.DocPurchaseInvoice {
		verb = "Purchase"
	}
	draft := domain.DraftEntry{
		TransactionDate: inv.InvoiceDate,
		Description:     fmt.Sprintf("%s invoice %s", verb, inv.InvoiceNumber),
		Reference:       inv.InvoiceNumber,
		Lines:           lines,
	}
	ref := domain.DocumentRef{DocumentID: inv.InvoiceID, DocumentType: inv.InvoiceType, Reference: inv.InvoiceNumber}

	entry, err := s.ledgerSvc.PostEntry(ctx, draft, ref, userID)
	if err != nil {
		return nil, nil, err
	}
	metrics.EntriesPosted.WithLabelValues(string(inv.InvoiceType)).Inc()

	inv.Status = domain.StatusPosted
	inv.JournalEntryID = &entry.EntryID
	return inv, entry, nil
}

// postPayment resolves and commits the entry for a DRAFT payment document.
func (s *postingService) postPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	p, err := s.docRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != domain.StatusDraft {
		return nil, nil, fmt.Errorf("%w: %s %s is already posted (status %s)",
			apperrors.ErrIllegalState, p.Kind, p.Reference, p.Status)
	}

	extra := []string{p.BankAccountID}
	if p.CounterAccountID != nil {
		extra = append(extra, *p.CounterAccountID)
	}
	input, err := s.resolverInputFor(ctx, extra, nil)
	if err != nil {
		return nil, nil, err
	}

	lines, err := ResolvePaymentLines(*p, input)
	if err != nil {
		logger.Warn("Payment posting rules failed",
			slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	draft := domain.DraftEntry{
		TransactionDate: p.PaymentDate,
		Description:     paymentDescription(p),
		Reference:       p.Reference,
		Lines:           lines,
	}
	ref := domain.DocumentRef{DocumentID: p.PaymentID, DocumentType: p.Kind, Reference: p.Reference}

	entry, err := s.ledgerSvc.PostEntry(ctx, draft, ref, userID)
	if err != nil {
		return nil, nil, err
	}
	metrics.EntriesPosted.WithLabelValues(string(p.Kind)).Inc()

	p.Status = domain.StatusPosted
	p.JournalEntryID = &entry.EntryID
	return p, entry, nil
}

func paymentDescription(p *domain.Payment) string {
	switch p.Kind {
	case domain.DocReceipt:
		return fmt.Sprintf("Receipt %s", p.Reference)
	case domain.DocTransfer:
		return fmt.Sprintf("Transfer %s", p.Reference)
	default:
		return fmt.Sprintf("Payment %s", p.Reference)
	}
}

// ApproveInvoice implements portssvc.PostingSvcFacade.
func (s *postingService) ApproveInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	inv, _, err := s.postInvoice(ctx, invoiceID, userID)
	return inv, err
}

// UnpostInvoice implements portssvc.PostingSvcFacade.
// Legal only from POSTED: a PAID invoice must first have its payment allocation
// reversed by the payments subsystem. Failure in the void step leaves it POSTED.
func (s *postingService) UnpostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	inv, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case domain.StatusPosted:
		// OK to proceed.
	case domain.StatusPaid:
		return nil, fmt.Errorf("%w: invoice %s is paid; reverse its payment allocation before unposting",
			apperrors.ErrIllegalState, inv.InvoiceNumber)
	default:
		return nil, fmt.Errorf("%w: invoice %s is not posted (status %s)",
			apperrors.ErrIllegalState, inv.InvoiceNumber, inv.Status)
	}
	if inv.JournalEntryID == nil {
		return nil, fmt.Errorf("%w: posted invoice %s has no linked journal entry", apperrors.ErrInternal, inv.InvoiceNumber)
	}

	ref := domain.DocumentRef{DocumentID: inv.InvoiceID, DocumentType: inv.InvoiceType, Reference: inv.InvoiceNumber}
	if err := s.ledgerSvc.VoidEntry(ctx, *inv.JournalEntryID, ref, userID); err != nil {
		return nil, err
	}
	metrics.EntriesUnposted.WithLabelValues(string(inv.InvoiceType)).Inc()

	inv.Status = domain.StatusDraft
	inv.JournalEntryID = nil
	return inv, nil
}

// MarkInvoicePaid implements portssvc.PostingSvcFacade. Driven by the external
// payment allocation subsystem; no ledger effect here.
func (s *postingService) MarkInvoicePaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	inv, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: invoice %s must be posted to be marked paid (status %s)",
			apperrors.ErrIllegalState, inv.InvoiceNumber, inv.Status)
	}

	now := time.Now().UTC()
	if err := s.docRepo.MarkInvoicePaid(ctx, invoiceID, userID, now); err != nil {
		return nil, err
	}

	inv.Status = domain.StatusPaid
	inv.LastUpdatedAt = now
	inv.LastUpdatedBy = userID
	return inv, nil
}

// ApprovePayment implements portssvc.PostingSvcFacade.
func (s *postingService) ApprovePayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	p, _, err := s.postPayment(ctx, paymentID, userID)
	return p, err
}

// UnpostPayment implements portssvc.PostingSvcFacade.
func (s *postingService) UnpostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	p, err := s.docRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: %s %s is not posted (status %s)",
			apperrors.ErrIllegalState, p.Kind, p.Reference, p.Status)
	}
	if p.JournalEntryID == nil {
		return nil, fmt.Errorf("%w: posted %s %s has no linked journal entry", apperrors.ErrInternal, p.Kind, p.PaymentID)
	}

	ref := domain.DocumentRef{DocumentID: p.PaymentID, DocumentType: p.Kind, Reference: p.Reference}
	if err := s.ledgerSvc.VoidEntry(ctx, *p.JournalEntryID, ref, userID); err != nil {
		return nil, err
	}
	metrics.EntriesUnposted.WithLabelValues(string(p.Kind)).Inc()

	p.Status = domain.StatusDraft
	p.JournalEntryID = nil
	return p, nil
}

// PostJournalEntryForDocument implements portssvc.PostingSvcFacade: the
// generalization the invoice and payment flows share.
func (s *postingService) PostJournalEntryForDocument(ctx context.Context, documentID string, docType domain.DocumentType, userID string) (*domain.JournalEntry, error) {
	switch docType {
	case domain.DocSaleInvoice, domain.DocPurchaseInvoice:
		_, entry, err := s.postInvoice(ctx, documentID, userID)
		return entry, err
	case domain.DocPayment, domain.DocReceipt, domain.DocTransfer:
		_, entry, err := s.postPayment(ctx, documentID, userID)
		return entry, err
	default:
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}
}

// UnpostJournalEntry implements portssvc.PostingSvcFacade: voids an entry by id,
// reverting whichever document is linked to it.
func (s *postingService) UnpostJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerSvc.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if inv, err := s.docRepo.FindInvoiceByEntryID(ctx, entryID); err == nil {
		if _, err := s.UnpostInvoice(ctx, inv.InvoiceID, userID); err != nil {
			return nil, err
		}
		return entry, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	p, err := s.docRepo.FindPaymentByEntryID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s is not linked to any document", apperrors.ErrNotFound, entryID)
		}
		return nil, err
	}
	if _, err := s.UnpostPayment(ctx, p.PaymentID, userID); err != nil {
		return nil, err
	}
	return entry, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

var (
	// ErrEntryTooFewLines is returned when a candidate entry has fewer than two lines.
	ErrEntryTooFewLines = fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)

	// ErrEntryUnbalanced is returned when the debit and credit sums of a candidate
	// entry differ. The wrapped detail carries both sums; any nonzero difference is
	// an error here, never silently corrected.
	ErrEntryUnbalanced = fmt.Errorf("%w: journal entry debits and credits do not balance", apperrors.ErrValidation)
)

// ledgerService validates candidate entries and hands them to the journal
// repository for atomic persistence.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates the ledger validator/writer.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateDraftEntry recomputes the debit and credit sums from the candidate lines
// and enforces the line-shape invariant: every line is a pure debit or pure credit
// with a positive amount.
func validateDraftEntry(draft domain.DraftEntry) error {
	if len(draft.Lines) < 2 {
		return ErrEntryTooFewLines
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for i, l := range draft.Lines {
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: line %d amount must be positive, got %s", apperrors.ErrValidation, i+1, l.Amount)
		}
		switch l.Type {
		case domain.Debit:
			debitSum = debitSum.Add(l.Amount)
		case domain.Credit:
			creditSum = creditSum.Add(l.Amount)
		default:
			return fmt.Errorf("%w: line %d has unknown line type %q", apperrors.ErrValidation, i+1, l.Type)
		}
	}

	if !debitSum.Equal(creditSum) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s (difference %s)",
			ErrEntryUnbalanced, debitSum, creditSum, debitSum.Sub(creditSum).Abs())
	}
	return nil
}

// PostEntry validates and atomically persists a candidate entry for a document.
// Entry number allocation, row insertion and the document status flip all happen in
// one storage transaction inside the repository.
func (s *ledgerService) PostEntry(ctx context.Context, draft domain.DraftEntry, doc domain.DocumentRef, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDraftEntry(draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:         entryID,
		TransactionDate: draft.TransactionDate,
		Description:     draft.Description,
		Reference:       draft.Reference,
		Status:          domain.EntryPosted,
		Lines:           make([]domain.JournalLine, len(draft.Lines)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i, l := range draft.Lines {
		line := domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: l.AccountID,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
			Position:  i + 1,
		}
		if l.Type == domain.Debit {
			line.Debit = l.Amount
		} else {
			line.Credit = l.Amount
		}
		entry.Lines[i] = line
	}

	committed, err := s.journalRepo.CreateEntry(ctx, entry, doc)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConcurrency) {
			logger.Error("Failed to persist journal entry",
				slog.String("reference", doc.Reference), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", committed.EntryID),
		slog.Int64("entry_number", committed.EntryNumber),
		slog.String("reference", committed.Reference))
	return committed, nil
}

// VoidEntry removes a committed entry, reverting the owning document, as one atomic
// unit. The entry's number stays consumed; a later posting gets a fresh one.
func (s *ledgerService) VoidEntry(ctx context.Context, entryID string, doc domain.DocumentRef, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.journalRepo.VoidEntry(ctx, entryID, doc); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConcurrency) {
			logger.Error("Failed to void journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		}
		return err
	}

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("reference", doc.Reference))
	return nil
}

// GetEntryByID retrieves a journal entry with its lines.
func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// GetEntryByReference retrieves the entry linked to a document reference.
func (s *ledgerService) GetEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry for reference %s: %w", reference, err)
	}
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.journalRepo.ListEntries(ctx, limit, nextToken)
}

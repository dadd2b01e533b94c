package repositories

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry (with its lines) by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves the entry whose reference matches the given
	// document reference, or apperrors.ErrNotFound if none exists.
	FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries ordered by entry
	// number descending, using token-based pagination.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines the atomic write operations of the ledger.
type JournalWriter interface {
	// CreateEntry persists the entry and its lines as one database transaction.
	// Within that same transaction it allocates the next entry number from the
	// ledger sequence and flips the owning document's status from DRAFT to POSTED
	// with a compare-and-set, recording the entry link on the document.
	// A lost CAS race surfaces apperrors.ErrConcurrency and nothing is written.
	// Returns the committed entry including its assigned entry number.
	CreateEntry(ctx context.Context, entry domain.JournalEntry, doc domain.DocumentRef) (*domain.JournalEntry, error)

	// VoidEntry deletes the entry and its lines as one database transaction,
	// reverting the owning document's status from POSTED to DRAFT and clearing its
	// entry link with a compare-and-set. The entry number is never reassigned.
	// Returns apperrors.ErrNotFound if the entry does not exist.
	VoidEntry(ctx context.Context, entryID string, doc domain.DocumentRef) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

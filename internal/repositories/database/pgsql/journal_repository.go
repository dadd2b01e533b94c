package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/smallbooks/bookkeeping_app/internal/utils/pagination"
)

// entrySequenceName is the row in entry_sequences that issues ledger entry numbers.
const entrySequenceName = "journal_entries"

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool DBPool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// documentCASQueries returns the status flip statements for the table owning the
// document.
// Posting flips DRAFT to POSTED and records the entry link; voiding reverts it.
func documentCASQueries(docType domain.DocumentType) (postQuery string, voidQuery string) {
	switch docType {
	case domain.DocSaleInvoice, domain.DocPurchaseInvoice:
		return `
			UPDATE invoices
			SET status = 'POSTED', journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE invoice_id = $1 AND status = 'DRAFT';
		`, `
			UPDATE invoices
			SET status = 'DRAFT', journal_entry_id = NULL, last_updated_at = $3, last_updated_by = $4
			WHERE invoice_id = $1 AND status = 'POSTED' AND journal_entry_id = $2;
		`
	default:
		return `
			UPDATE payments
			SET status = 'POSTED', journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE payment_id = $1 AND status = 'DRAFT';
		`, `
			UPDATE payments
			SET status = 'DRAFT', journal_entry_id = NULL, last_updated_at = $3, last_updated_by = $4
			WHERE payment_id = $1 AND status = 'POSTED' AND journal_entry_id = $2;
		`
	}
}

// CreateEntry persists the entry and its lines, allocating the next entry number and
// flipping the owning document's status, all within one database transaction.
// The UPDATE on entry_sequences takes a row lock, so concurrently posting entries
// serialize on number allocation and numbers are issued in commit order.
func (r *PgxJournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, doc domain.DocumentRef) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// 1. Allocate the next entry number. Voided entries never return their number,
	// so gaps are expected.
	var entryNumber int64
	seqQuery := `
		UPDATE entry_sequences
		SET last_value = last_value + 1
		WHERE name = $1
		RETURNING last_value;
	`
	if err := tx.QueryRow(ctx, seqQuery, entrySequenceName).Scan(&entryNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(500, "entry sequence "+entrySequenceName+" is not seeded", err)
		}
		return nil, apperrors.NewAppError(500, "failed to allocate entry number", err)
	}
	entry.EntryNumber = entryNumber

	// 2. Insert the entry header.
	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, entry_number, transaction_date, description, reference, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.EntryNumber,
		modelEntry.TransactionDate,
		modelEntry.Description,
		modelEntry.Reference,
		modelEntry.Status,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	// 3. Insert the lines as a batch.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit, credit, position)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range entry.Lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.Position,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert lines for journal entry "+modelEntry.EntryID, err)
	}

	// 4. Flip the owning document DRAFT -> POSTED. Zero rows means another request
	// already transitioned it; nothing is committed in that case.
	postQuery, _ := documentCASQueries(doc.DocumentType)
	cmdTag, err := tx.Exec(ctx, postQuery, doc.DocumentID, entry.EntryID, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update document status for "+doc.DocumentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrConcurrency
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// VoidEntry deletes the entry and its lines, reverting the owning document's status,
// all within one database transaction. The consumed entry number is not reissued.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entryID string, doc domain.DocumentRef) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updatedBy, err := r.entryActor(ctx, tx, entryID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	// The document row holds a foreign key to the entry, so the link must be
	// cleared before the entry row can be deleted.
	_, voidQuery := documentCASQueries(doc.DocumentType)
	cmdTag, err := tx.Exec(ctx, voidQuery, doc.DocumentID, entryID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revert document status for "+doc.DocumentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConcurrency
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for journal entry "+entryID, err)
	}

	cmdTag, err = tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// entryActor reads who last touched the entry, inside the voiding transaction, so
// the document revert carries a real user reference rather than a zero value.
func (r *PgxJournalRepository) entryActor(ctx context.Context, tx pgx.Tx, entryID string) (string, error) {
	var lastUpdatedBy string
	query := `SELECT last_updated_by FROM journal_entries WHERE entry_id = $1;`
	if err := tx.QueryRow(ctx, query, entryID).Scan(&lastUpdatedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.NewAppError(500, "failed to read journal entry "+entryID, err)
	}
	return lastUpdatedBy, nil
}

const entryColumns = `
	entry_id, entry_number, transaction_date, description, reference, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanEntryRow(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.TransactionDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntryRow(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	entry.Lines, err = r.findLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryByReference retrieves the entry whose reference matches the given value.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reference = $1;`
	m, err := scanEntryRow(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by reference "+reference, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	entry.Lines, err = r.findLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, position
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Position); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListEntries retrieves a paginated list of entry headers ordered by entry number
// descending. The cursor is the last entry number of the previous page.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	orderByClause := `ORDER BY entry_number DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastNumber, decodeErr := pagination.DecodeNumberToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastNumber)
		query := baseQuery + " WHERE entry_number < $1 " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntryRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", scanErr)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		newToken := pagination.EncodeNumberToken(lastEntry.EntryNumber)
		nextTokenVal = &newToken
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

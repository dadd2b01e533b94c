package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID         string    `db:"entry_id"`
	EntryNumber     int64     `db:"entry_number"`
	TransactionDate time.Time `db:"transaction_date"`
	Description     string    `db:"description"`
	Reference       string    `db:"reference"`
	Status          string    `db:"status"`
	AuditFields
}

// JournalLine is the journal_entry_lines table row. Exactly one of Debit/Credit
// is positive, enforced by a table CHECK constraint.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Position  int             `db:"position"`
}

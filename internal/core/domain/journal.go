package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
)

// LineType indicates whether a journal line is a debit or a credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalEntry represents a single, balanced financial event composed of multiple lines.
// The entry number is assigned exactly once, at posting time, from the ledger sequence.
type JournalEntry struct {
	EntryID         string        `json:"entryID"`         // Primary key (UUID)
	EntryNumber     int64         `json:"entryNumber"`     // Unique, strictly increasing in commit order
	TransactionDate time.Time     `json:"transactionDate"` // Date the event occurred
	Description     string        `json:"description"`
	Reference       string        `json:"reference"` // Free-text link back to the originating document
	Status          EntryStatus   `json:"status"`
	Lines           []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single line within a journal entry, affecting one account.
// Exactly one of Debit/Credit is positive; the other is zero.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Position  int             `json:"position"` // Order of the line within the entry
}

// DraftLine is a candidate journal line produced by the posting rule resolver,
// before persistence assigns identifiers.
type DraftLine struct {
	AccountID string
	Type      LineType
	Amount    decimal.Decimal
}

// DraftEntry is a candidate journal entry handed to the ledger writer.
type DraftEntry struct {
	TransactionDate time.Time
	Description     string
	Reference       string
	Lines           []DraftLine
}

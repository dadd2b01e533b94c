package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// JournalLineResponse defines the data returned for a journal entry line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
// EntryNumber carries the raw sequence value; DisplayNumber is the human-facing
// presentation layered over it.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryNumber     int64                 `json:"entryNumber"`
	DisplayNumber   string                `json:"displayNumber"`
	TransactionDate time.Time             `json:"transactionDate"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	Status          string                `json:"status"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
}

// PostEntryRequest identifies the DRAFT document to post a journal entry for.
type PostEntryRequest struct {
	DocumentID   string `json:"documentID" binding:"required,uuid"`
	DocumentType string `json:"documentType" binding:"required,documenttype"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is the paginated journal entry listing.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// FormatEntryNumber renders the presentation form of an entry number.
func FormatEntryNumber(n int64) string {
	return fmt.Sprintf("JE-%06d", n)
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		DisplayNumber:   FormatEntryNumber(e.EntryNumber),
		TransactionDate: e.TransactionDate,
		Description:     e.Description,
		Reference:       e.Reference,
		Status:          string(e.Status),
		Lines:           lines,
	}
}

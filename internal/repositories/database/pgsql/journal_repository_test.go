package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

type JournalRepositoryTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo portsrepo.JournalRepositoryFacade
}

func (suite *JournalRepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	suite.Require().NoError(err)
	suite.mock = mock
	suite.repo = newPgxJournalRepository(mock)
}

func (suite *JournalRepositoryTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestJournalRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(JournalRepositoryTestSuite))
}

func (suite *JournalRepositoryTestSuite) paymentRef() domain.DocumentRef {
	return domain.DocumentRef{
		DocumentID:   uuid.NewString(),
		DocumentType: domain.DocPayment,
		Reference:    "PMT-042",
	}
}

// Voiding must clear the document's entry link before the entry row is deleted;
// the document tables hold foreign keys into journal_entries, so deleting first
// would violate the constraint on every unpost.
func (suite *JournalRepositoryTestSuite) TestVoidEntry_ClearsDocumentLinkBeforeDelete() {
	ctx := context.Background()
	entryID := uuid.NewString()
	doc := suite.paymentRef()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT last_updated_by FROM journal_entries`).
		WithArgs(entryID).
		WillReturnRows(pgxmock.NewRows([]string{"last_updated_by"}).AddRow("user-7"))
	suite.mock.ExpectExec(`UPDATE payments`).
		WithArgs(doc.DocumentID, entryID, pgxmock.AnyArg(), "user-7").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`DELETE FROM journal_entry_lines`).
		WithArgs(entryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM journal_entries`).
		WithArgs(entryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.VoidEntry(ctx, entryID, doc)

	suite.NoError(err)
}

func (suite *JournalRepositoryTestSuite) TestVoidEntry_DocumentMovedIsConcurrency() {
	ctx := context.Background()
	entryID := uuid.NewString()
	doc := suite.paymentRef()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT last_updated_by FROM journal_entries`).
		WithArgs(entryID).
		WillReturnRows(pgxmock.NewRows([]string{"last_updated_by"}).AddRow("user-7"))
	// Another request already moved the document on; nothing may be deleted.
	suite.mock.ExpectExec(`UPDATE payments`).
		WithArgs(doc.DocumentID, entryID, pgxmock.AnyArg(), "user-7").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.VoidEntry(ctx, entryID, doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
}

func (suite *JournalRepositoryTestSuite) TestVoidEntry_EntryMissing() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT last_updated_by FROM journal_entries`).
		WithArgs(entryID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	err := suite.repo.VoidEntry(ctx, entryID, suite.paymentRef())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalRepositoryTestSuite) postableEntry(doc domain.DocumentRef) domain.JournalEntry {
	now := time.Now().UTC()
	entryID := uuid.NewString()
	return domain.JournalEntry{
		EntryID:         entryID,
		TransactionDate: now,
		Description:     "Payment PMT-042",
		Reference:       doc.Reference,
		Status:          domain.EntryPosted,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: uuid.NewString(), Debit: decimal.NewFromInt(250), Position: 1},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: uuid.NewString(), Credit: decimal.NewFromInt(250), Position: 2},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "user-7",
			LastUpdatedAt: now,
			LastUpdatedBy: "user-7",
		},
	}
}

// Posting the same document reference twice trips the unique index on
// journal_entries.reference and surfaces as a duplicate.
func (suite *JournalRepositoryTestSuite) TestCreateEntry_DuplicateReference() {
	ctx := context.Background()
	doc := suite.paymentRef()
	entry := suite.postableEntry(doc)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE entry_sequences`).
		WithArgs(entrySequenceName).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	suite.mock.ExpectExec(`INSERT INTO journal_entries`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_journal_entries_reference"})
	suite.mock.ExpectRollback()

	_, err := suite.repo.CreateEntry(ctx, entry, doc)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *JournalRepositoryTestSuite) TestCreateEntry_SequenceNotSeeded() {
	ctx := context.Background()
	doc := suite.paymentRef()
	entry := suite.postableEntry(doc)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE entry_sequences`).
		WithArgs(entrySequenceName).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	_, err := suite.repo.CreateEntry(ctx, entry, doc)

	suite.Require().Error(err)
	suite.ErrorContains(err, "not seeded")
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	service         portssvc.LedgerSvcFacade
	userID          string
	accountA        string
	accountB        string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewLedgerService(suite.mockJournalRepo)
	suite.userID = uuid.NewString()
	suite.accountA = uuid.NewString()
	suite.accountB = uuid.NewString()
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) balancedDraft() domain.DraftEntry {
	return domain.DraftEntry{
		TransactionDate: time.Now(),
		Description:     "Sales invoice INV-001",
		Reference:       "INV-001",
		Lines: []domain.DraftLine{
			{AccountID: suite.accountA, Type: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.accountB, Type: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}
}

func (suite *LedgerServiceTestSuite) docRef() domain.DocumentRef {
	return domain.DocumentRef{DocumentID: uuid.NewString(), DocumentType: domain.DocSaleInvoice, Reference: "INV-001"}
}

func (suite *LedgerServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	draft := suite.balancedDraft()
	doc := suite.docRef()

	suite.mockJournalRepo.On("CreateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), doc).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.JournalEntry)
			suite.Equal(domain.EntryPosted, entry.Status)
			suite.Equal("INV-001", entry.Reference)
			suite.Len(entry.Lines, 2)
			// Pure debit XOR credit per line, positions assigned in order.
			suite.True(entry.Lines[0].Debit.Equal(decimal.NewFromInt(100)))
			suite.True(entry.Lines[0].Credit.IsZero())
			suite.True(entry.Lines[1].Credit.Equal(decimal.NewFromInt(100)))
			suite.True(entry.Lines[1].Debit.IsZero())
			suite.Equal(1, entry.Lines[0].Position)
			suite.Equal(2, entry.Lines[1].Position)
			suite.Equal(suite.userID, entry.CreatedBy)
		}).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 42, Reference: "INV-001", Status: domain.EntryPosted}, nil).Once()

	committed, err := suite.service.PostEntry(ctx, draft, doc, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(committed)
	suite.Equal(int64(42), committed.EntryNumber)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	draft := suite.balancedDraft()
	draft.Lines[1].Amount = decimal.NewFromInt(99)

	_, err := suite.service.PostEntry(ctx, draft, suite.docRef(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.Contains(err.Error(), "100")
	suite.Contains(err.Error(), "99")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntry_TooFewLines() {
	ctx := context.Background()
	draft := suite.balancedDraft()
	draft.Lines = draft.Lines[:1]

	_, err := suite.service.PostEntry(ctx, draft, suite.docRef(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryTooFewLines)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntry_NonPositiveLine() {
	ctx := context.Background()
	draft := suite.balancedDraft()
	draft.Lines[0].Amount = decimal.Zero
	draft.Lines[1].Amount = decimal.Zero

	_, err := suite.service.PostEntry(ctx, draft, suite.docRef(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntry_ConcurrencyPassThrough() {
	ctx := context.Background()

	suite.mockJournalRepo.On("CreateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.DocumentRef")).
		Return(nil, apperrors.ErrConcurrency).Once()

	_, err := suite.service.PostEntry(ctx, suite.balancedDraft(), suite.docRef(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	doc := suite.docRef()

	suite.mockJournalRepo.On("VoidEntry", ctx, entryID, doc).Return(nil).Once()

	err := suite.service.VoidEntry(ctx, entryID, doc, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()
	doc := suite.docRef()

	suite.mockJournalRepo.On("VoidEntry", ctx, entryID, doc).Return(apperrors.ErrNotFound).Once()

	err := suite.service.VoidEntry(ctx, entryID, doc, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetEntryByReference() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 7, Reference: "INV-007"}

	suite.mockJournalRepo.On("FindEntryByReference", ctx, "INV-007").Return(entry, nil).Once()

	found, err := suite.service.GetEntryByReference(ctx, "INV-007")

	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, found.EntryID)
}

func (suite *LedgerServiceTestSuite) TestListEntries_DefaultsLimit() {
	ctx := context.Background()
	entries := []domain.JournalEntry{{EntryID: uuid.NewString(), EntryNumber: 2}, {EntryID: uuid.NewString(), EntryNumber: 1}}

	suite.mockJournalRepo.On("ListEntries", ctx, 20, (*string)(nil)).Return(entries, nil, nil).Once()

	got, next, err := suite.service.ListEntries(ctx, 0, nil)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	assert.Nil(suite.T(), next)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

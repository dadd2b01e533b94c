package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockDocRepo     *MockDocumentRepository
	mockAccountRepo *MockAccountRepository
	mockItemRepo    *MockItemRepository
	mockLedgerSvc   *MockLedgerService
	service         portssvc.PostingSvcFacade
	userID          string
	fixture         resolverFixture
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockItemRepo = new(MockItemRepository)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewPostingService(suite.mockDocRepo, suite.mockAccountRepo, suite.mockItemRepo, suite.mockLedgerSvc)
	suite.userID = uuid.NewString()
	suite.fixture = newResolverFixture()
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

// expectReferenceData wires up the mapping and account lookups the resolver needs.
func (suite *PostingServiceTestSuite) expectReferenceData() {
	suite.mockAccountRepo.On("FindAccountMappings", mock.Anything).Return(suite.fixture.input.Mappings, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(suite.fixture.input.Accounts, nil).Once()
}

func (suite *PostingServiceTestSuite) draftInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-100",
		InvoiceType:   domain.DocSaleInvoice,
		InvoiceDate:   time.Now(),
		Status:        domain.StatusDraft,
		CurrencyCode:  "EUR",
		Subtotal:      decimal.NewFromInt(1000),
		TaxTotal:      decimal.Zero,
		Total:         decimal.NewFromInt(1000),
		Lines: []domain.InvoiceLine{
			{LineID: uuid.NewString(), Subtotal: decimal.NewFromInt(1000)},
		},
	}
}

func (suite *PostingServiceTestSuite) postedInvoice() *domain.Invoice {
	inv := suite.draftInvoice()
	entryID := uuid.NewString()
	inv.Status = domain.StatusPosted
	inv.JournalEntryID = &entryID
	return inv
}

func (suite *PostingServiceTestSuite) draftPayment() *domain.Payment {
	return &domain.Payment{
		PaymentID:     uuid.NewString(),
		Kind:          domain.DocPayment,
		BankAccountID: suite.fixture.bankID,
		Amount:        decimal.NewFromInt(250),
		PaymentDate:   time.Now(),
		Status:        domain.StatusDraft,
		CurrencyCode:  "EUR",
		Reference:     "PMT-001",
	}
}

func (suite *PostingServiceTestSuite) TestApproveInvoice_Success() {
	ctx := context.Background()
	inv := suite.draftInvoice()
	committedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 1, Reference: inv.InvoiceNumber}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.expectReferenceData()
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("domain.DraftEntry"),
		domain.DocumentRef{DocumentID: inv.InvoiceID, DocumentType: domain.DocSaleInvoice, Reference: inv.InvoiceNumber}, suite.userID).
		Run(func(args mock.Arguments) {
			draft := args.Get(1).(domain.DraftEntry)
			suite.Equal(inv.InvoiceNumber, draft.Reference)
			suite.Len(draft.Lines, 2)
		}).
		Return(committedEntry, nil).Once()

	posted, err := suite.service.ApproveInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Require().NotNil(posted.JournalEntryID)
	suite.Equal(committedEntry.EntryID, *posted.JournalEntryID)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestApproveInvoice_AlreadyPosted() {
	ctx := context.Background()
	inv := suite.postedInvoice()

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.ApproveInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	// No second entry may ever be created for an already posted document.
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestApproveInvoice_UnmappedRole() {
	ctx := context.Background()
	inv := suite.draftInvoice()
	delete(suite.fixture.input.Mappings, domain.RoleAccountsReceivable)

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.expectReferenceData()

	_, err := suite.service.ApproveInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnmappedAccount)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestApproveInvoice_ConcurrencyPassThrough() {
	ctx := context.Background()
	inv := suite.draftInvoice()

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.expectReferenceData()
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrConcurrency).Once()

	_, err := suite.service.ApproveInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
}

func (suite *PostingServiceTestSuite) TestUnpostInvoice_Success() {
	ctx := context.Background()
	inv := suite.postedInvoice()
	entryID := *inv.JournalEntryID

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockLedgerSvc.On("VoidEntry", ctx, entryID,
		domain.DocumentRef{DocumentID: inv.InvoiceID, DocumentType: domain.DocSaleInvoice, Reference: inv.InvoiceNumber}, suite.userID).
		Return(nil).Once()

	reverted, err := suite.service.UnpostInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, reverted.Status)
	suite.Nil(reverted.JournalEntryID)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestUnpostInvoice_PaidIsIllegal() {
	ctx := context.Background()
	inv := suite.postedInvoice()
	inv.Status = domain.StatusPaid

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.UnpostInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "VoidEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestUnpostInvoice_DraftIsIllegal() {
	ctx := context.Background()
	inv := suite.draftInvoice()

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.UnpostInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
}

func (suite *PostingServiceTestSuite) TestMarkInvoicePaid_Success() {
	ctx := context.Background()
	inv := suite.postedInvoice()

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockDocRepo.On("MarkInvoicePaid", ctx, inv.InvoiceID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	paid, err := suite.service.MarkInvoicePaid(ctx, inv.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, paid.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestMarkInvoicePaid_DraftIsIllegal() {
	ctx := context.Background()
	inv := suite.draftInvoice()

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.MarkInvoicePaid(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkInvoicePaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestApprovePayment_Success() {
	ctx := context.Background()
	p := suite.draftPayment()
	committedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 5, Reference: p.Reference}

	suite.mockDocRepo.On("FindPaymentByID", ctx, p.PaymentID).Return(p, nil).Once()
	suite.expectReferenceData()
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("domain.DraftEntry"),
		domain.DocumentRef{DocumentID: p.PaymentID, DocumentType: domain.DocPayment, Reference: p.Reference}, suite.userID).
		Return(committedEntry, nil).Once()

	posted, err := suite.service.ApprovePayment(ctx, p.PaymentID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Require().NotNil(posted.JournalEntryID)
	suite.Equal(committedEntry.EntryID, *posted.JournalEntryID)
}

func (suite *PostingServiceTestSuite) TestApprovePayment_AlreadyPosted() {
	ctx := context.Background()
	p := suite.draftPayment()
	entryID := uuid.NewString()
	p.Status = domain.StatusPosted
	p.JournalEntryID = &entryID

	suite.mockDocRepo.On("FindPaymentByID", ctx, p.PaymentID).Return(p, nil).Once()

	_, err := suite.service.ApprovePayment(ctx, p.PaymentID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestUnpostPayment_Success() {
	ctx := context.Background()
	p := suite.draftPayment()
	entryID := uuid.NewString()
	p.Status = domain.StatusPosted
	p.JournalEntryID = &entryID

	suite.mockDocRepo.On("FindPaymentByID", ctx, p.PaymentID).Return(p, nil).Once()
	suite.mockLedgerSvc.On("VoidEntry", ctx, entryID,
		domain.DocumentRef{DocumentID: p.PaymentID, DocumentType: domain.DocPayment, Reference: p.Reference}, suite.userID).
		Return(nil).Once()

	reverted, err := suite.service.UnpostPayment(ctx, p.PaymentID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, reverted.Status)
	suite.Nil(reverted.JournalEntryID)
}

func (suite *PostingServiceTestSuite) TestUnpostJournalEntry_RoutesToInvoice() {
	ctx := context.Background()
	inv := suite.postedInvoice()
	entryID := *inv.JournalEntryID
	entry := &domain.JournalEntry{EntryID: entryID, EntryNumber: 9, Reference: inv.InvoiceNumber}

	suite.mockLedgerSvc.On("GetEntryByID", ctx, entryID).Return(entry, nil).Once()
	suite.mockDocRepo.On("FindInvoiceByEntryID", ctx, entryID).Return(inv, nil).Once()
	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockLedgerSvc.On("VoidEntry", ctx, entryID, mock.AnythingOfType("domain.DocumentRef"), suite.userID).Return(nil).Once()

	got, err := suite.service.UnpostJournalEntry(ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(entryID, got.EntryID)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestUnpostJournalEntry_NoLinkedDocument() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{EntryID: entryID, EntryNumber: 3}

	suite.mockLedgerSvc.On("GetEntryByID", ctx, entryID).Return(entry, nil).Once()
	suite.mockDocRepo.On("FindInvoiceByEntryID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindPaymentByEntryID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UnpostJournalEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostEntryForDocument_Invoice() {
	ctx := context.Background()
	inv := suite.draftInvoice()
	committedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 8, Reference: inv.InvoiceNumber}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.expectReferenceData()
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("domain.DraftEntry"),
		domain.DocumentRef{DocumentID: inv.InvoiceID, DocumentType: domain.DocSaleInvoice, Reference: inv.InvoiceNumber}, suite.userID).
		Return(committedEntry, nil).Once()

	entry, err := suite.service.PostJournalEntryForDocument(ctx, inv.InvoiceID, domain.DocSaleInvoice, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(committedEntry.EntryID, entry.EntryID)
	suite.Equal(inv.InvoiceNumber, entry.Reference)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostEntryForDocument_Payment() {
	ctx := context.Background()
	p := suite.draftPayment()
	committedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: 9, Reference: p.Reference}

	suite.mockDocRepo.On("FindPaymentByID", ctx, p.PaymentID).Return(p, nil).Once()
	suite.expectReferenceData()
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("domain.DraftEntry"),
		domain.DocumentRef{DocumentID: p.PaymentID, DocumentType: domain.DocPayment, Reference: p.Reference}, suite.userID).
		Return(committedEntry, nil).Once()

	entry, err := suite.service.PostJournalEntryForDocument(ctx, p.PaymentID, domain.DocPayment, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(committedEntry.EntryID, entry.EntryID)
}

func (suite *PostingServiceTestSuite) TestPostEntryForDocument_UnknownType() {
	ctx := context.Background()

	_, err := suite.service.PostJournalEntryForDocument(ctx, uuid.NewString(), domain.DocumentType("REFUND"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

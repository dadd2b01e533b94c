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
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockDocRepo     *MockDocumentRepository
	mockPartnerRepo *MockPartnerRepository
	service         portssvc.InvoiceSvcFacade
	userID          string
	partner         domain.Partner
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.service = services.NewInvoiceService(suite.mockDocRepo, suite.mockPartnerRepo)
	suite.userID = uuid.NewString()
	suite.partner = domain.Partner{
		PartnerID: uuid.NewString(),
		Kind:      domain.PartnerCustomer,
		Name:      "Acme GmbH",
		IsActive:  true,
	}
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) createRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-200",
		InvoiceType:   "SALE",
		PartnerID:     suite.partner.PartnerID,
		InvoiceDate:   time.Now(),
		CurrencyCode:  "EUR",
		Lines: []dto.CreateInvoiceLineRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(9.995)},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()
	suite.mockDocRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.NotEmpty(invoice.InvoiceID)
	suite.Equal(domain.StatusDraft, invoice.Status)
	suite.Nil(invoice.JournalEntryID)
	suite.Equal(suite.userID, invoice.CreatedBy)
	// 3 x 9.995 = 29.985, rounded half-to-even to 29.98.
	suite.True(invoice.Subtotal.Equal(decimal.NewFromFloat(29.98)), "got %s", invoice.Subtotal)
	suite.True(invoice.Total.Equal(invoice.Subtotal.Add(invoice.TaxTotal)))
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InactivePartner() {
	ctx := context.Background()
	req := suite.createRequest()
	suite.partner.IsActive = false

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NonPositiveQuantity() {
	ctx := context.Background()
	req := suite.createRequest()
	req.Lines[0].Quantity = decimal.Zero

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DuplicateNumber() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()
	suite.mockDocRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *InvoiceServiceTestSuite) TestUpdateDraftInvoice_NotDraft() {
	ctx := context.Background()
	entryID := uuid.NewString()
	inv := &domain.Invoice{
		InvoiceID:      uuid.NewString(),
		InvoiceNumber:  "INV-300",
		Status:         domain.StatusPosted,
		JournalEntryID: &entryID,
	}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.UpdateDraftInvoice(ctx, inv.InvoiceID, dto.UpdateInvoiceRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDraftInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateDraftInvoice_ReplacesLines() {
	ctx := context.Background()
	inv := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-301",
		InvoiceType:   domain.DocSaleInvoice,
		PartnerID:     suite.partner.PartnerID,
		Status:        domain.StatusDraft,
		Subtotal:      decimal.NewFromInt(10),
		Total:         decimal.NewFromInt(10),
	}
	req := dto.UpdateInvoiceRequest{
		Lines: []dto.CreateInvoiceLineRequest{
			{Description: "Hosting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(40)},
		},
	}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	suite.mockDocRepo.On("UpdateDraftInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	updated, err := suite.service.UpdateDraftInvoice(ctx, inv.InvoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.Total.Equal(decimal.NewFromInt(80)), "got %s", updated.Total)
	suite.Len(updated.Lines, 1)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *InvoiceServiceTestSuite) TestDeleteDraftInvoice_NotDraft() {
	ctx := context.Background()
	inv := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-302",
		Status:        domain.StatusPaid,
	}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	err := suite.service.DeleteDraftInvoice(ctx, inv.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "DeleteDraftInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestListInvoices_PassesToken() {
	ctx := context.Background()
	token := "b2s="
	invoices := []domain.Invoice{{InvoiceID: uuid.NewString(), InvoiceNumber: "INV-1"}}

	suite.mockDocRepo.On("ListInvoices", ctx, 20, &token).Return(invoices, "next", nil).Once()

	resp, err := suite.service.ListInvoices(ctx, dto.ListInvoicesParams{Limit: 0, NextToken: &token})

	suite.Require().NoError(err)
	suite.Len(resp.Invoices, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

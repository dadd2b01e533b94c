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
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// invoiceService manages draft invoices. Posting lives on the posting service.
type invoiceService struct {
	docRepo     portsrepo.DocumentRepositoryFacade
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(docRepo portsrepo.DocumentRepositoryFacade, partnerRepo portsrepo.PartnerRepositoryFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{docRepo: docRepo, partnerRepo: partnerRepo}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// buildLines maps line requests to domain lines, computing subtotals with
// round-half-to-even and accumulating the invoice totals.
func buildLines(invoiceID string, reqLines []dto.CreateInvoiceLineRequest) ([]domain.InvoiceLine, decimal.Decimal, decimal.Decimal, error) {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	lines := make([]domain.InvoiceLine, len(reqLines))
	for i, lr := range reqLines {
		if lr.Quantity.LessThanOrEqual(decimal.Zero) || lr.UnitPrice.IsNegative() || lr.TaxAmount.IsNegative() {
			return nil, decimal.Zero, decimal.Zero,
				fmt.Errorf("%w: line %d quantity must be positive and amounts non-negative", apperrors.ErrValidation, i+1)
		}
		lineSubtotal := accounting.LineSubtotal(lr.Quantity, lr.UnitPrice)
		lineTax := accounting.RoundMinor(lr.TaxAmount)
		lines[i] = domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			ItemID:      lr.ItemID,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			TaxCode:     lr.TaxCode,
			TaxAmount:   lineTax,
			Subtotal:    lineSubtotal,
			Position:    i + 1,
		}
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineTax)
	}
	return lines, subtotal, taxTotal, nil
}

// CreateInvoice implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", req.PartnerID, err)
	}
	if !partner.IsActive {
		return nil, fmt.Errorf("%w: partner %s is inactive", apperrors.ErrValidation, partner.Name)
	}

	invoiceID := uuid.NewString()
	lines, subtotal, taxTotal, err := buildLines(invoiceID, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceType:   domain.DocumentType(req.InvoiceType),
		PartnerID:     req.PartnerID,
		InvoiceDate:   req.InvoiceDate,
		Status:        domain.StatusDraft,
		CurrencyCode:  req.CurrencyCode,
		Subtotal:      subtotal,
		TaxTotal:      taxTotal,
		Total:         subtotal.Add(taxTotal),
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.docRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, req.InvoiceNumber)
		}
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoiceID), slog.String("invoice_number", req.InvoiceNumber))
	return &invoice, nil
}

// GetInvoiceByID implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoices implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	invoices, nextToken, err := s.docRepo.ListInvoices(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	return &dto.ListInvoicesResponse{Invoices: responses, NextToken: nextToken}, nil
}

// UpdateDraftInvoice implements portssvc.InvoiceSvcFacade. Only DRAFT invoices can
// change; posted history is immutable short of unposting.
func (s *invoiceService) UpdateDraftInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: invoice %s is not a draft (status %s)",
			apperrors.ErrIllegalState, invoice.InvoiceNumber, invoice.Status)
	}

	if req.InvoiceDate != nil {
		invoice.InvoiceDate = *req.InvoiceDate
	}
	if req.PartnerID != nil {
		if _, err := s.partnerRepo.FindPartnerByID(ctx, *req.PartnerID); err != nil {
			return nil, fmt.Errorf("failed to find partner %s: %w", *req.PartnerID, err)
		}
		invoice.PartnerID = *req.PartnerID
	}
	if req.Lines != nil {
		lines, subtotal, taxTotal, err := buildLines(invoiceID, req.Lines)
		if err != nil {
			return nil, err
		}
		invoice.Lines = lines
		invoice.Subtotal = subtotal
		invoice.TaxTotal = taxTotal
		invoice.Total = subtotal.Add(taxTotal)
	}

	invoice.LastUpdatedAt = time.Now().UTC()
	invoice.LastUpdatedBy = userID

	if err := s.docRepo.UpdateDraftInvoice(ctx, *invoice); err != nil {
		logger.Error("Failed to update draft invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

// DeleteDraftInvoice implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) DeleteDraftInvoice(ctx context.Context, invoiceID string, userID string) error {
	invoice, err := s.docRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.StatusDraft {
		return fmt.Errorf("%w: invoice %s is not a draft (status %s); unpost it first",
			apperrors.ErrIllegalState, invoice.InvoiceNumber, invoice.Status)
	}
	return s.docRepo.DeleteDraftInvoice(ctx, invoiceID)
}

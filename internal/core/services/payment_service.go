package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
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

// paymentService manages draft payment, receipt and transfer documents.
type paymentService struct {
	docRepo     portsrepo.DocumentRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewPaymentService creates a new payment service.
func NewPaymentService(docRepo portsrepo.DocumentRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{docRepo: docRepo, accountRepo: accountRepo}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment implements portssvc.PaymentSvcFacade.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := accounting.RoundMinor(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, req.Amount)
	}

	bank, err := s.accountRepo.FindAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}
	if !bank.IsBank {
		return nil, fmt.Errorf("%w: account %s is not a bank or cash account", apperrors.ErrValidation, bank.Code)
	}
	if req.CounterAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.CounterAccountID); err != nil {
			return nil, fmt.Errorf("failed to find counter account %s: %w", *req.CounterAccountID, err)
		}
	}

	kind := domain.DocumentType(req.Kind)
	paymentID := uuid.NewString()
	reference := req.Reference
	if reference == "" {
		// Short, human-readable fallback derived from the document id.
		reference = fmt.Sprintf("%s-%s", kindPrefix(kind), strings.ToUpper(paymentID[:8]))
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:        paymentID,
		Kind:             kind,
		PartnerID:        req.PartnerID,
		BankAccountID:    req.BankAccountID,
		CounterAccountID: req.CounterAccountID,
		Amount:           amount,
		PaymentDate:      req.PaymentDate,
		Status:           domain.StatusDraft,
		CurrencyCode:     req.CurrencyCode,
		Reference:        reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.docRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment document created",
		slog.String("payment_id", paymentID), slog.String("kind", req.Kind), slog.String("reference", reference))
	return &payment, nil
}

func kindPrefix(kind domain.DocumentType) string {
	switch kind {
	case domain.DocReceipt:
		return "RCP"
	case domain.DocTransfer:
		return "TRF"
	default:
		return "PMT"
	}
}

// GetPaymentByID implements portssvc.PaymentSvcFacade.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.docRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments implements portssvc.PaymentSvcFacade.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	payments, nextToken, err := s.docRepo.ListPayments(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &dto.ListPaymentsResponse{Payments: dto.ToPaymentResponses(payments), NextToken: nextToken}, nil
}

// DeleteDraftPayment implements portssvc.PaymentSvcFacade.
func (s *paymentService) DeleteDraftPayment(ctx context.Context, paymentID string, userID string) error {
	payment, err := s.docRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != domain.StatusDraft {
		return fmt.Errorf("%w: %s %s is not a draft (status %s); unpost it first",
			apperrors.ErrIllegalState, payment.Kind, payment.Reference, payment.Status)
	}
	return s.docRepo.DeleteDraftPayment(ctx, paymentID)
}

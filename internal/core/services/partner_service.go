package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

type partnerService struct {
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewPartnerService creates a new partner service.
func NewPartnerService(partnerRepo portsrepo.PartnerRepositoryFacade) portssvc.PartnerSvcFacade {
	return &partnerService{partnerRepo: partnerRepo}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

// CreatePartner implements portssvc.PartnerSvcFacade.
func (s *partnerService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, creatorUserID string) (*domain.Partner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.PartnerKind(req.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown partner kind %q", apperrors.ErrValidation, req.Kind)
	}

	now := time.Now().UTC()
	partner := domain.Partner{
		PartnerID: uuid.NewString(),
		Kind:      kind,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		TaxNumber: req.TaxNumber,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		logger.Error("Failed to save partner", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save partner: %w", err)
	}

	logger.Info("Partner created", slog.String("partner_id", partner.PartnerID), slog.String("kind", req.Kind))
	return &partner, nil
}

// GetPartnerByID implements portssvc.PartnerSvcFacade.
func (s *partnerService) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	return partner, nil
}

// ListPartners implements portssvc.PartnerSvcFacade.
func (s *partnerService) ListPartners(ctx context.Context, kind *domain.PartnerKind, limit int, offset int) ([]domain.Partner, error) {
	if kind != nil && !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown partner kind %q", apperrors.ErrValidation, *kind)
	}
	if limit <= 0 {
		limit = 20
	}
	partners, err := s.partnerRepo.ListPartners(ctx, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

// UpdatePartner implements portssvc.PartnerSvcFacade.
func (s *partnerService) UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, userID string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Email != nil {
		partner.Email = *req.Email
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
	}
	if req.TaxNumber != nil {
		partner.TaxNumber = *req.TaxNumber
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}
	partner.LastUpdatedAt = time.Now().UTC()
	partner.LastUpdatedBy = userID

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		return nil, fmt.Errorf("failed to update partner %s: %w", partnerID, err)
	}
	return partner, nil
}

package services

import (
	"context"
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
)

type itemService struct {
	itemRepo    portsrepo.ItemRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewItemService creates a new item service.
func NewItemService(itemRepo portsrepo.ItemRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.ItemSvcFacade {
	return &itemService{itemRepo: itemRepo, accountRepo: accountRepo}
}

var _ portssvc.ItemSvcFacade = (*itemService)(nil)

func (s *itemService) checkAccountRef(ctx context.Context, accountID *string) error {
	if accountID == nil {
		return nil
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, *accountID); err != nil {
		return fmt.Errorf("failed to find account %s: %w", *accountID, err)
	}
	return nil
}

// CreateItem implements portssvc.ItemSvcFacade.
func (s *itemService) CreateItem(ctx context.Context, req dto.CreateItemRequest, creatorUserID string) (*domain.Item, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.UnitPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
	}
	if err := s.checkAccountRef(ctx, req.ExpenseAccountID); err != nil {
		return nil, err
	}
	if err := s.checkAccountRef(ctx, req.RevenueAccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := domain.Item{
		ItemID:           uuid.NewString(),
		Name:             req.Name,
		UnitPrice:        req.UnitPrice,
		ExpenseAccountID: req.ExpenseAccountID,
		RevenueAccountID: req.RevenueAccountID,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.itemRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to save item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	logger.Info("Item created", slog.String("item_id", item.ItemID), slog.String("name", item.Name))
	return &item, nil
}

// GetItemByID implements portssvc.ItemSvcFacade.
func (s *itemService) GetItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}
	return item, nil
}

// ListItems implements portssvc.ItemSvcFacade.
func (s *itemService) ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	items, err := s.itemRepo.ListItems(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// UpdateItem implements portssvc.ItemSvcFacade.
func (s *itemService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, userID string) (*domain.Item, error) {
	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
		}
		item.UnitPrice = *req.UnitPrice
	}
	if req.ExpenseAccountID != nil {
		if err := s.checkAccountRef(ctx, req.ExpenseAccountID); err != nil {
			return nil, err
		}
		item.ExpenseAccountID = req.ExpenseAccountID
	}
	if req.RevenueAccountID != nil {
		if err := s.checkAccountRef(ctx, req.RevenueAccountID); err != nil {
			return nil, err
		}
		item.RevenueAccountID = req.RevenueAccountID
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = userID

	if err := s.itemRepo.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", itemID, err)
	}
	return item, nil
}

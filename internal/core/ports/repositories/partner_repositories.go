package repositories

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// PartnerRepositoryFacade defines persistence operations for partner master data.
type PartnerRepositoryFacade interface {
	SavePartner(ctx context.Context, partner domain.Partner) error
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context, kind *domain.PartnerKind, limit int, offset int) ([]domain.Partner, error)
	UpdatePartner(ctx context.Context, partner domain.Partner) error
}

// ItemRepositoryFacade defines persistence operations for inventory item master data.
type ItemRepositoryFacade interface {
	SaveItem(ctx context.Context, item domain.Item) error
	FindItemByID(ctx context.Context, itemID string) (*domain.Item, error)
	FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error)
	ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) error
}

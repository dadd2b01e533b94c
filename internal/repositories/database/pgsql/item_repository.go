package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
)

type PgxItemRepository struct {
	BaseRepository
}

// newPgxItemRepository creates a new repository for inventory item master data.
func newPgxItemRepository(pool DBPool) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

const itemColumns = `
	item_id, name, unit_price, expense_account_id, revenue_account_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanItemRow(row pgx.Row) (*models.Item, error) {
	var m models.Item
	err := row.Scan(
		&m.ItemID,
		&m.Name,
		&m.UnitPrice,
		&m.ExpenseAccountID,
		&m.RevenueAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveItem persists a new item.
func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	query := `
		INSERT INTO items (
			item_id, name, unit_price, expense_account_id, revenue_account_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.Name, m.UnitPrice, m.ExpenseAccountID, m.RevenueAccountID, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert item "+m.ItemID, err)
	}
	return nil
}

// FindItemByID retrieves an item by its unique identifier.
func (r *PgxItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1;`
	m, err := scanItemRow(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find item by ID "+itemID, err)
	}
	item := mapping.ToDomainItem(*m)
	return &item, nil
}

// FindItemsByIDs retrieves the given items keyed by item ID.
func (r *PgxItemRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.Item{}, nil
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items by IDs", err)
	}
	defer rows.Close()

	items := make(map[string]domain.Item, len(itemIDs))
	for rows.Next() {
		m, scanErr := scanItemRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row", scanErr)
		}
		items[m.ItemID] = mapping.ToDomainItem(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows", err)
	}
	return items, nil
}

// ListItems retrieves items ordered by name.
func (r *PgxItemRepository) ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		m, scanErr := scanItemRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row", scanErr)
		}
		items = append(items, mapping.ToDomainItem(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows", err)
	}
	return items, nil
}

// UpdateItem updates the mutable fields of an item.
func (r *PgxItemRepository) UpdateItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	query := `
		UPDATE items
		SET name = $2, unit_price = $3, expense_account_id = $4, revenue_account_id = $5,
		    is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.Name, m.UnitPrice, m.ExpenseAccountID, m.RevenueAccountID,
		m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update item "+m.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

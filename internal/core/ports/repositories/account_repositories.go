package repositories

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the given accounts keyed by account ID.
	// Missing IDs are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// FindAccountMappings retrieves the configured posting-role mappings keyed by role.
	FindAccountMappings(ctx context.Context) (map[domain.AccountRole]string, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates the mutable fields (name, description, active flag) of
	// an account. Code and type changes do not retroactively alter posted history.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// SaveAccountMapping upserts a posting-role mapping.
	SaveAccountMapping(ctx context.Context, mapping domain.AccountMapping) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

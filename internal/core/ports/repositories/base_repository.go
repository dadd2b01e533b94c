package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RepositoryProvider bundles all repository facades for service construction.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	PartnerRepo  PartnerRepositoryFacade
	ItemRepo     ItemRepositoryFacade
	DocumentRepo DocumentRepositoryFacade
	JournalRepo  JournalRepositoryFacade
	UserRepo     UserRepositoryFacade
}

// TransactionManager defines methods for database transaction management.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}

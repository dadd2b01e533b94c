package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		PartnerRepo:  newPgxPartnerRepository(dbPool),
		ItemRepo:     newPgxItemRepository(dbPool),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}

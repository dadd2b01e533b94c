package services

import (
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Partner = NewPartnerService(repos.PartnerRepo)
	container.Item = NewItemService(repos.ItemRepo, repos.AccountRepo)
	container.Invoice = NewInvoiceService(repos.DocumentRepo, repos.PartnerRepo)
	container.Payment = NewPaymentService(repos.DocumentRepo, repos.AccountRepo)

	// The ledger service validates and writes entries; the posting service sits on
	// top of it and owns the document transitions.
	container.Ledger = NewLedgerService(repos.JournalRepo)
	container.Posting = NewPostingService(repos.DocumentRepo, repos.AccountRepo, repos.ItemRepo, container.Ledger)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}

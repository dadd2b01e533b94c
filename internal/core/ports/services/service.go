package services

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Account AccountSvcFacade
	Partner PartnerSvcFacade
	Item    ItemSvcFacade
	Invoice InvoiceSvcFacade
	Payment PaymentSvcFacade
	Posting PostingSvcFacade
	Ledger  LedgerSvcFacade
	User    UserSvcFacade
	Auth    AuthSvcFacade
}

package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CompanyRepo        CompanyRepositoryFacade
	AccountRepo        AccountRepositoryFacade
	CurrencyRepo       CurrencyRepositoryFacade
	ExchangeRateRepo   ExchangeRateRepositoryFacade
	JournalRepo        JournalRepositoryFacade
	MoveRepo           MoveRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
}

package services

import (
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// repos is used for reads outside a transaction; writes go through txManager.
func NewServiceContainer(cfg *config.Config, txManager portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, reconcileOpts ...ReconciliationOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Company = NewCompanyService(repos)
	container.Account = NewAccountService(
		repos.AccountRepo,
		WithCurrencyRepository(repos.CurrencyRepo),
		WithCompanyRepository(repos.CompanyRepo),
	)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, repos.CurrencyRepo, repos.CompanyRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.CompanyRepo)
	container.Move = NewMoveService(txManager, repos)

	opts := make([]ReconciliationOption, 0, len(reconcileOpts)+1)
	if cfg != nil {
		opts = append(opts, WithRetryPolicy(RetryPolicy{
			MaxRetries:      cfg.ReconcileMaxRetries,
			InitialInterval: cfg.ReconcileRetryInterval,
			MaxElapsedTime:  cfg.ReconcileRetryMaxElapsed,
		}))
	}
	opts = append(opts, reconcileOpts...)
	container.Reconciliation = NewReconciliationService(txManager, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CompanySvcFacade      = (*companyService)(nil)
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.CurrencySvcFacade     = (*currencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
)

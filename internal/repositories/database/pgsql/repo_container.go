package pgsql

import (
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider returns repositories running directly on the pool, outside any
// transaction. Use TxManager for writes that must be atomic.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return newRepositories(dbPool)
}

func newRepositories(db querier) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db}
	return portsrepo.RepositoryProvider{
		CompanyRepo:        &PgxCompanyRepository{BaseRepository: base},
		AccountRepo:        &PgxAccountRepository{BaseRepository: base},
		CurrencyRepo:       &PgxCurrencyRepository{BaseRepository: base},
		ExchangeRateRepo:   &PgxExchangeRateRepository{BaseRepository: base},
		JournalRepo:        &PgxJournalRepository{BaseRepository: base},
		MoveRepo:           &PgxMoveRepository{BaseRepository: base},
		ReconciliationRepo: &PgxReconciliationRepository{BaseRepository: base},
	}
}

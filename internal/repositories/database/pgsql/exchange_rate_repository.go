package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a new exchange rate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (exchange_rate_id, company_id, from_currency_code, to_currency_code, rate,
			date_effective, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.ExchangeRateID, m.CompanyID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate,
		m.DateEffective, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save exchange rate "+m.ExchangeRateID)
}

// FindEffectiveRate returns the latest rate effective on or before date. A company's own rates
// are preferred over global ones.
func (r *PgxExchangeRateRepository) FindEffectiveRate(ctx context.Context, companyID, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, company_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $2 AND to_currency_code = $3 AND date_effective <= $4
			AND (company_id = $1 OR company_id IS NULL)
		ORDER BY (company_id IS NULL), date_effective DESC, created_at DESC
		LIMIT 1;
	`
	var m models.ExchangeRate
	err := r.db.QueryRow(ctx, query, companyID, fromCurrencyCode, toCurrencyCode, date).Scan(
		&m.ExchangeRateID, &m.CompanyID, &m.FromCurrencyCode, &m.ToCurrencyCode, &m.Rate, &m.DateEffective,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find exchange rate "+fromCurrencyCode+"->"+toCurrencyCode)
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

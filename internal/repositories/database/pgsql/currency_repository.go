package pgsql

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const currencyColumns = `currency_code, symbol, name, precision, rounding, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(&m.CurrencyCode, &m.Symbol, &m.Name, &m.Precision, &m.Rounding,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// SaveCurrency inserts or updates a currency (primarily for initial setup).
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (currency_code) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			precision = EXCLUDED.precision,
			rounding = EXCLUDED.rounding,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision, m.Rounding,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save currency "+m.CurrencyCode)
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1;`
	m, err := scanCurrency(r.db.QueryRow(ctx, query, currencyCode))
	if err != nil {
		return nil, mapPgError(err, "find currency "+currencyCode)
	}
	currency := mapping.ToDomainCurrency(m)
	return &currency, nil
}

// FindCurrenciesByCodes retrieves currencies keyed by code.
func (r *PgxCurrencyRepository) FindCurrenciesByCodes(ctx context.Context, currencyCodes []string) (map[string]domain.Currency, error) {
	out := make(map[string]domain.Currency, len(currencyCodes))
	if len(currencyCodes) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE currency_code = ANY($1);`, currencyCodes)
	if err != nil {
		return nil, mapPgError(err, "query currencies")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan currencies")
	}
	for _, m := range found {
		out[m.CurrencyCode] = mapping.ToDomainCurrency(m)
	}
	return out, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.db.Query(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code;`)
	if err != nil {
		return nil, mapPgError(err, "query currencies")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan currencies")
	}
	return mapping.ToDomainCurrencySlice(found), nil
}

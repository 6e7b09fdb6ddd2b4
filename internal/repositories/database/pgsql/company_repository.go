package pgsql

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxCompanyRepository struct {
	BaseRepository
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// SaveCompany inserts a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (company_id, name, currency_code, fiscal_lock_date, exchange_journal_id,
			income_exchange_account_id, expense_exchange_account_id, cash_basis_base_account_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.CompanyID, m.Name, m.CurrencyCode, m.FiscalLockDate, m.ExchangeJournalID,
		m.IncomeExchangeAccountID, m.ExpenseExchangeAccountID, m.CashBasisBaseAccountID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save company "+m.CompanyID)
}

// FindCompanyByID retrieves a company with its reconciliation settings.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, currency_code, fiscal_lock_date, exchange_journal_id,
			income_exchange_account_id, expense_exchange_account_id, cash_basis_base_account_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.db.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.Name, &m.CurrencyCode, &m.FiscalLockDate, &m.ExchangeJournalID,
		&m.IncomeExchangeAccountID, &m.ExpenseExchangeAccountID, &m.CashBasisBaseAccountID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find company "+companyID)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// UpdateCompany stores the settings of a company.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		UPDATE companies
		SET name = $2, fiscal_lock_date = $3, exchange_journal_id = $4, income_exchange_account_id = $5,
			expense_exchange_account_id = $6, cash_basis_base_account_id = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		m.CompanyID, m.Name, m.FiscalLockDate, m.ExchangeJournalID, m.IncomeExchangeAccountID,
		m.ExpenseExchangeAccountID, m.CashBasisBaseAccountID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update company "+m.CompanyID)
	}
	if ct.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "update company "+m.CompanyID)
	}
	return nil
}

package pgsql

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, company_id, code, name, capabilities, currency_code, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.CompanyID, &m.Code, &m.Name, &m.Capabilities, &m.CurrencyCode, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.db.Exec(ctx, query,
		m.AccountID, m.CompanyID, m.Code, m.Name, m.Capabilities, m.CurrencyCode, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "save account "+m.AccountID)
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "find account "+accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "query accounts")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan accounts")
	}
	for _, m := range found {
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return accounts, nil
}

// ListAccounts retrieves a page of the accounts of a company ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, mapPgError(err, "list accounts")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan accounts")
	}
	return mapping.ToDomainAccountSlice(found), nil
}

// UpdateAccount updates the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, capabilities = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	ct, err := r.db.Exec(ctx, query, m.AccountID, m.Name, m.Capabilities, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update account "+m.AccountID)
	}
	if ct.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "update account "+m.AccountID)
	}
	return nil
}

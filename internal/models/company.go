package models

import "time"

// Company is a row of the companies table.
type Company struct {
	CompanyID                string     `db:"company_id"`
	Name                     string     `db:"name"`
	CurrencyCode             string     `db:"currency_code"`
	FiscalLockDate           *time.Time `db:"fiscal_lock_date"`
	ExchangeJournalID        *string    `db:"exchange_journal_id"`
	IncomeExchangeAccountID  *string    `db:"income_exchange_account_id"`
	ExpenseExchangeAccountID *string    `db:"expense_exchange_account_id"`
	CashBasisBaseAccountID   *string    `db:"cash_basis_base_account_id"`
	AuditFields
}

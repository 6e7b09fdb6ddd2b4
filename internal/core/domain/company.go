package domain

import "time"

// Company owns accounts, journals and moves, and carries the settings used when
// settlement leaves rounding differences behind.
type Company struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Company (functional) currency

	// FiscalLockDate locks every date up to and including itself.
	FiscalLockDate *time.Time `json:"fiscalLockDate,omitempty"`

	ExchangeJournalID        *string `json:"exchangeJournalID,omitempty"`
	IncomeExchangeAccountID  *string `json:"incomeExchangeAccountID,omitempty"`  // gain
	ExpenseExchangeAccountID *string `json:"expenseExchangeAccountID,omitempty"` // loss
	CashBasisBaseAccountID   *string `json:"cashBasisBaseAccountID,omitempty"`
	AuditFields
}

// AccountingDate returns date, or the first unlocked day when date falls inside the locked period.
func (c Company) AccountingDate(date time.Time) time.Time {
	if c.FiscalLockDate != nil && !date.After(*c.FiscalLockDate) {
		return c.FiscalLockDate.AddDate(0, 0, 1)
	}
	return date
}

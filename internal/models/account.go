package models

// Account represents a ledger account within a company.
// Capabilities is stored as a bit set, see domain.AccountCapability.
type Account struct {
	AccountID    string  `db:"account_id"`
	CompanyID    string  `db:"company_id"`
	Code         string  `db:"code"`
	Name         string  `db:"name"`
	Capabilities int16   `db:"capabilities"`
	CurrencyCode *string `db:"currency_code"` // Nullable
	IsActive     bool    `db:"is_active"`
	AuditFields
}

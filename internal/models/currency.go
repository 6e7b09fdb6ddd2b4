package models

import "github.com/shopspring/decimal"

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string          `db:"currency_code"` // Primary Key (e.g., "USD")
	Symbol       string          `db:"symbol"`
	Name         string          `db:"name"`
	Precision    int             `db:"precision"`
	Rounding     decimal.Decimal `db:"rounding"`
	AuditFields
}

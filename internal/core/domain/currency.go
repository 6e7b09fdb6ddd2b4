package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string          `json:"symbol"`       // e.g., "$"
	Name         string          `json:"name"`         // e.g., "US Dollar"
	Precision    int             `json:"precision"`    // Decimal places, e.g. 2 for USD, 0 for JPY
	Rounding     decimal.Decimal `json:"rounding"`     // Smallest representable increment; derived from Precision when zero
	AuditFields
}

// RoundingIncrement returns the smallest amount the currency can express.
func (c Currency) RoundingIncrement() decimal.Decimal {
	if c.Rounding.IsPositive() {
		return c.Rounding
	}
	return decimal.New(1, -int32(c.Precision))
}

// Round rounds amount half away from zero to the currency increment.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	inc := c.RoundingIncrement()
	return amount.Div(inc).Round(0).Mul(inc)
}

// IsZero reports whether |amount| is below the rounding increment.
func (c Currency) IsZero(amount decimal.Decimal) bool {
	return amount.Abs().LessThan(c.RoundingIncrement())
}

// Compare returns -1, 0 or 1 comparing a and b once both are rounded to the currency.
func (c Currency) Compare(a, b decimal.Decimal) int {
	diff := c.Round(a).Sub(c.Round(b))
	if c.IsZero(diff) {
		return 0
	}
	return diff.Sign()
}

package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyTable resolves currency codes to their rounding rules.
type CurrencyTable map[string]domain.Currency

// NewCurrencyTable indexes currencies by code.
func NewCurrencyTable(currencies ...domain.Currency) CurrencyTable {
	table := make(CurrencyTable, len(currencies))
	for _, c := range currencies {
		table[c.CurrencyCode] = c
	}
	return table
}

// Get returns the currency for code or an ErrNotFound-wrapped error.
func (t CurrencyTable) Get(code string) (domain.Currency, error) {
	c, ok := t[code]
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
	}
	return c, nil
}

// Converter converts an amount between currencies as of date, rounding to the target currency.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency, companyID string, date time.Time) (decimal.Decimal, error)
}

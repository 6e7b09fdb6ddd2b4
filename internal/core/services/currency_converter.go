package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// rateConverter converts with the latest rate effective on the date, falling back to the
// inverse of the opposite pair.
type rateConverter struct {
	rates portsrepo.ExchangeRateReader
}

func newRateConverter(rates portsrepo.ExchangeRateReader) accounting.Converter {
	return rateConverter{rates: rates}
}

func (c rateConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency, companyID string, date time.Time) (decimal.Decimal, error) {
	if from.CurrencyCode == to.CurrencyCode {
		return to.Round(amount), nil
	}

	rate, err := c.rates.FindEffectiveRate(ctx, companyID, from.CurrencyCode, to.CurrencyCode, date)
	if err == nil {
		return to.Round(amount.Mul(rate.Rate)), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, err
	}

	inverse, err := c.rates.FindEffectiveRate(ctx, companyID, to.CurrencyCode, from.CurrencyCode, date)
	if err == nil && inverse.Rate.IsPositive() {
		return to.Round(amount.Div(inverse.Rate)), nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, err
	}
	return decimal.Zero, fmt.Errorf("%w: no exchange rate from %s to %s on %s for company %s",
		apperrors.ErrConfiguration, from.CurrencyCode, to.CurrencyCode, date.Format(time.DateOnly), companyID)
}

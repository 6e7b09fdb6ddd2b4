package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindEffectiveRate returns the latest from->to rate effective on or before date. Company
	// specific rates win over global ones. Returns apperrors.ErrNotFound when none exists.
	FindEffectiveRate(ctx context.Context, companyID, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

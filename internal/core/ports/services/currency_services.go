package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetEffectiveRate retrieves the rate in force between two currencies on date.
	GetEffectiveRate(ctx context.Context, companyID, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)

	// Convert converts amount between currencies as of date and rounds it to the target currency.
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency, companyID string, date time.Time) (decimal.Decimal, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new company-specific exchange rate.
	CreateExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

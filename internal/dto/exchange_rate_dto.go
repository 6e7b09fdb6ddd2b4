package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
// Rates created under a company apply to that company only.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase,nefield=FromCurrencyCode"`
	Rate             decimal.Decimal `json:"rate" binding:"decimal_positive"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	CompanyID        *string         `json:"companyID,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		CompanyID:        rate.CompanyID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
	}
}

// GetEffectiveRateParams selects the rate in force on a date.
type GetEffectiveRateParams struct {
	From string    `form:"from" binding:"required,len=3,uppercase"`
	To   string    `form:"to" binding:"required,len=3,uppercase"`
	Date time.Time `form:"date" time_format:"2006-01-02" binding:"required"`
}

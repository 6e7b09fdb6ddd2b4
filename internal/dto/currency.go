package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string           `json:"currencyCode" binding:"required,uppercase,len=3"`
	Symbol       string           `json:"symbol" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Precision    *int             `json:"precision" binding:"required,min=0,max=8"`
	Rounding     *decimal.Decimal `json:"rounding" binding:"omitempty,decimal_positive"` // Defaults to 10^-precision
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Precision     int             `json:"precision"`
	Rounding      decimal.Decimal `json:"rounding"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		Precision:     curr.Precision,
		Rounding:      curr.RoundingIncrement(),
		CreatedAt:     curr.CreatedAt,
		CreatedBy:     curr.CreatedBy,
		LastUpdatedAt: curr.LastUpdatedAt,
		LastUpdatedBy: curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}

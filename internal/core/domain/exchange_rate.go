package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores how many units of ToCurrencyCode one unit of FromCurrencyCode buys
// from DateEffective onwards. A nil CompanyID makes the rate global.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	CompanyID        *string         `json:"companyID,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

package mapping

import (
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ExchangeRateID,
		CompanyID:        d.CompanyID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		DateEffective:    d.DateEffective,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:   m.ExchangeRateID,
		CompanyID:        m.CompanyID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		DateEffective:    m.DateEffective,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

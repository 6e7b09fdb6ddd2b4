package mapping

import (
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/models"
)

// ToModelPartialReconcile converts a domain PartialReconcile to a model PartialReconcile
func ToModelPartialReconcile(d domain.PartialReconcile) models.PartialReconcile {
	return models.PartialReconcile{
		PartialID:            d.PartialID,
		CompanyID:            d.CompanyID,
		DebitLineID:          d.DebitLineID,
		CreditLineID:         d.CreditLineID,
		Amount:               d.Amount,
		DebitAmountCurrency:  d.DebitAmountCurrency,
		CreditAmountCurrency: d.CreditAmountCurrency,
		FullReconcileID:      d.FullReconcileID,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDomainPartialReconcile converts a model PartialReconcile to a domain PartialReconcile
func ToDomainPartialReconcile(m models.PartialReconcile) domain.PartialReconcile {
	return domain.PartialReconcile{
		PartialID:            m.PartialID,
		CompanyID:            m.CompanyID,
		DebitLineID:          m.DebitLineID,
		CreditLineID:         m.CreditLineID,
		Amount:               m.Amount,
		DebitAmountCurrency:  m.DebitAmountCurrency,
		CreditAmountCurrency: m.CreditAmountCurrency,
		FullReconcileID:      m.FullReconcileID,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}

// ToDomainFullReconcile converts a model FullReconcile; member IDs are loaded separately.
func ToDomainFullReconcile(m models.FullReconcile, partialIDs, lineIDs []string) domain.FullReconcile {
	return domain.FullReconcile{
		FullReconcileID: m.FullReconcileID,
		CompanyID:       m.CompanyID,
		PartialIDs:      partialIDs,
		LineIDs:         lineIDs,
		ExchangeMoveID:  m.ExchangeMoveID,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

package mapping

import (
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		CompanyID:    d.CompanyID,
		Code:         d.Code,
		Name:         d.Name,
		Capabilities: int16(d.Capabilities),
		CurrencyCode: d.CurrencyCode,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		CompanyID:    m.CompanyID,
		Code:         m.Code,
		Name:         m.Name,
		Capabilities: domain.AccountCapability(m.Capabilities),
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:                d.CompanyID,
		Name:                     d.Name,
		CurrencyCode:             d.CurrencyCode,
		FiscalLockDate:           d.FiscalLockDate,
		ExchangeJournalID:        d.ExchangeJournalID,
		IncomeExchangeAccountID:  d.IncomeExchangeAccountID,
		ExpenseExchangeAccountID: d.ExpenseExchangeAccountID,
		CashBasisBaseAccountID:   d.CashBasisBaseAccountID,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:                m.CompanyID,
		Name:                     m.Name,
		CurrencyCode:             m.CurrencyCode,
		FiscalLockDate:           m.FiscalLockDate,
		ExchangeJournalID:        m.ExchangeJournalID,
		IncomeExchangeAccountID:  m.IncomeExchangeAccountID,
		ExpenseExchangeAccountID: m.ExpenseExchangeAccountID,
		CashBasisBaseAccountID:   m.CashBasisBaseAccountID,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}

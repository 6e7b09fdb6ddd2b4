package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// UpdateCompanySettingsRequest updates the settings used when settling lines.
// Nil fields are left untouched.
type UpdateCompanySettingsRequest struct {
	FiscalLockDate           *time.Time `json:"fiscalLockDate"`
	ExchangeJournalID        *string    `json:"exchangeJournalID" binding:"omitempty,uuid"`
	IncomeExchangeAccountID  *string    `json:"incomeExchangeAccountID" binding:"omitempty,uuid"`
	ExpenseExchangeAccountID *string    `json:"expenseExchangeAccountID" binding:"omitempty,uuid"`
	CashBasisBaseAccountID   *string    `json:"cashBasisBaseAccountID" binding:"omitempty,uuid"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID                string     `json:"companyID"`
	Name                     string     `json:"name"`
	CurrencyCode             string     `json:"currencyCode"`
	FiscalLockDate           *time.Time `json:"fiscalLockDate,omitempty"`
	ExchangeJournalID        *string    `json:"exchangeJournalID,omitempty"`
	IncomeExchangeAccountID  *string    `json:"incomeExchangeAccountID,omitempty"`
	ExpenseExchangeAccountID *string    `json:"expenseExchangeAccountID,omitempty"`
	CashBasisBaseAccountID   *string    `json:"cashBasisBaseAccountID,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
	CreatedBy                string     `json:"createdBy"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:                c.CompanyID,
		Name:                     c.Name,
		CurrencyCode:             c.CurrencyCode,
		FiscalLockDate:           c.FiscalLockDate,
		ExchangeJournalID:        c.ExchangeJournalID,
		IncomeExchangeAccountID:  c.IncomeExchangeAccountID,
		ExpenseExchangeAccountID: c.ExpenseExchangeAccountID,
		CashBasisBaseAccountID:   c.CashBasisBaseAccountID,
		CreatedAt:                c.CreatedAt,
		CreatedBy:                c.CreatedBy,
	}
}

package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code         string   `json:"code" binding:"required,max=32"`
	Name         string   `json:"name" binding:"required"`
	Capabilities []string `json:"capabilities" binding:"omitempty,dive,oneof=RECONCILABLE LIQUIDITY RECEIVABLE PAYABLE OFF_BALANCE"`
	CurrencyCode *string  `json:"currencyCode" binding:"omitempty,len=3,uppercase"` // Optional secondary currency
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name         *string  `json:"name"`
	Capabilities []string `json:"capabilities" binding:"omitempty,dive,oneof=RECONCILABLE LIQUIDITY RECEIVABLE PAYABLE OFF_BALANCE"`
	IsActive     *bool    `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	CompanyID     string    `json:"companyID"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Capabilities  []string  `json:"capabilities"`
	CurrencyCode  *string   `json:"currencyCode,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		CompanyID:     acc.CompanyID,
		Code:          acc.Code,
		Name:          acc.Name,
		Capabilities:  acc.Capabilities.Names(),
		CurrencyCode:  acc.CurrencyCode,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

package services

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account of a company.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

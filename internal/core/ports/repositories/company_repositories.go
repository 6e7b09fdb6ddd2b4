package repositories

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company and its exchange difference settings.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// UpdateCompany updates settings such as the lock date and exchange accounts.
	UpdateCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}

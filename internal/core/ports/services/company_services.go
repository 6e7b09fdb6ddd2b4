package services

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/dto"
)

// CompanySvcFacade manages companies and their reconciliation settings.
type CompanySvcFacade interface {
	// CreateCompany persists a new company.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, userID string) (*domain.Company, error)

	// GetCompanyByID retrieves a company.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// UpdateCompanySettings changes the lock date and the exchange difference configuration.
	UpdateCompanySettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest, userID string) (*domain.Company, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/google/uuid"
)

type companyService struct {
	BaseService
	companyRepo  portsrepo.CompanyRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	accountRepo  portsrepo.AccountReader
	journalRepo  portsrepo.JournalReader
}

// NewCompanyService creates a new company service.
func NewCompanyService(repos portsrepo.RepositoryProvider) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo:  repos.CompanyRepo,
		currencyRepo: repos.CurrencyRepo,
		accountRepo:  repos.AccountRepo,
		journalRepo:  repos.JournalRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, userID string) (*domain.Company, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, err
	}

	now := s.now()
	company := domain.Company{
		CompanyID:    uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("company_id", company.CompanyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) UpdateCompanySettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest, userID string) (*domain.Company, error) {
	company, err := s.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.FiscalLockDate != nil {
		lock := *req.FiscalLockDate
		company.FiscalLockDate = &lock
	}
	if req.ExchangeJournalID != nil {
		journal, err := s.journalRepo.FindJournalByID(ctx, *req.ExchangeJournalID)
		if err != nil || journal.CompanyID != companyID {
			return nil, fmt.Errorf("%w: exchange journal %s does not exist in company %s", apperrors.ErrValidation, *req.ExchangeJournalID, companyID)
		}
		company.ExchangeJournalID = req.ExchangeJournalID
	}

	for _, ref := range []struct {
		id     *string
		target **string
		label  string
	}{
		{req.IncomeExchangeAccountID, &company.IncomeExchangeAccountID, "gain exchange account"},
		{req.ExpenseExchangeAccountID, &company.ExpenseExchangeAccountID, "loss exchange account"},
		{req.CashBasisBaseAccountID, &company.CashBasisBaseAccountID, "cash basis base account"},
	} {
		if ref.id == nil {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, *ref.id)
		if err != nil || account.CompanyID != companyID {
			return nil, fmt.Errorf("%w: %s %s does not exist in company %s", apperrors.ErrValidation, ref.label, *ref.id, companyID)
		}
		*ref.target = ref.id
	}

	company.LastUpdatedAt = s.now()
	company.LastUpdatedBy = userID
	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company settings", slog.String("company_id", companyID))
		return nil, err
	}
	return company, nil
}

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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	companyRepo  portsrepo.CompanyReader
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithCurrencyRepository adds currency repository dependency
func WithCurrencyRepository(repo portsrepo.CurrencyReader) AccountServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithCompanyRepository adds company repository dependency
func WithCompanyRepository(repo portsrepo.CompanyReader) AccountServiceOption {
	return func(s *accountService) {
		s.companyRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if s.companyRepo != nil {
		if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
			return nil, err
		}
	}

	caps, unknown := domain.ParseCapabilities(req.Capabilities)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown account capabilities: %s", apperrors.ErrValidation, strings.Join(unknown, ", "))
	}

	if req.CurrencyCode != nil && s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, *req.CurrencyCode); err != nil {
			s.LogError(ctx, err, "Invalid currency code", slog.String("currency_code", *req.CurrencyCode))
			return nil, fmt.Errorf("%w: invalid currency code %s", apperrors.ErrValidation, *req.CurrencyCode)
		}
	}

	now := s.now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		Capabilities: caps,
		CurrencyCode: req.CurrencyCode,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	// Accounts of other companies are reported as missing.
	if account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.Capabilities != nil {
		caps, unknown := domain.ParseCapabilities(req.Capabilities)
		if len(unknown) > 0 {
			return nil, fmt.Errorf("%w: unknown account capabilities: %s", apperrors.ErrValidation, strings.Join(unknown, ", "))
		}
		account.Capabilities = caps
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = s.now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	companyRepo  portsrepo.CompanyReader
	converter    accounting.Converter
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyRepo portsrepo.CurrencyReader, companyRepo portsrepo.CompanyReader) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:     rateRepo,
		currencyRepo: currencyRepo,
		companyRepo:  companyRepo,
		converter:    newRateConverter(rateRepo),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new company-specific exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	for _, code := range []string{req.FromCurrencyCode, req.ToCurrencyCode} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := s.now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		CompanyID:        &companyID,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("company_id", companyID),
			slog.String("from", rate.FromCurrencyCode),
			slog.String("to", rate.ToCurrencyCode))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return &rate, nil
}

// GetEffectiveRate retrieves the rate in force on date.
func (s *exchangeRateService) GetEffectiveRate(ctx context.Context, companyID, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindEffectiveRate(ctx, companyID, fromCode, toCode, date)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find exchange rate",
				slog.String("from", fromCode), slog.String("to", toCode))
		}
		return nil, err
	}
	return rate, nil
}

// Convert converts amount and rounds it to the target currency.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency, companyID string, date time.Time) (decimal.Decimal, error) {
	return s.converter.Convert(ctx, amount, from, to, companyID, date)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/shopspring/decimal"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	if req.Precision == nil {
		return nil, fmt.Errorf("%w: precision is required", apperrors.ErrValidation)
	}
	now := s.now()

	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    *req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Rounding != nil {
		if !req.Rounding.IsPositive() {
			return nil, fmt.Errorf("%w: rounding must be positive", apperrors.ErrValidation)
		}
		currency.Rounding = *req.Rounding
	} else {
		currency.Rounding = decimal.New(1, -int32(currency.Precision))
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find currency", slog.String("currency_code", currencyCode))
		}
		return nil, err
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

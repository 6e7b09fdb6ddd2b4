package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/google/uuid"
)

// journalService manages journals (books).
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	companyRepo portsrepo.CompanyReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, companyRepo portsrepo.CompanyReader) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo, companyRepo: companyRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, userID string) (*domain.Journal, error) {
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}

	now := s.now()
	journal := domain.Journal{
		JournalID: uuid.NewString(),
		CompanyID: companyID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.journalRepo.SaveJournal(ctx, journal); err != nil {
		s.LogError(ctx, err, "Failed to save journal", slog.String("company_id", companyID))
		return nil, err
	}
	return &journal, nil
}

func (s *journalService) GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.CompanyID != companyID {
		return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
	}
	return journal, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/utils/accounting"
	"github.com/google/uuid"
)

const exchangeMoveRef = "Currency exchange difference"

// exchangeOutcome is the posted exchange difference move and the partials binding it to the
// source lines.
type exchangeOutcome struct {
	move     domain.Move
	partials []domain.PartialReconcile
}

// createExchangeDifferenceMove books whatever residual is left on lines into the company's
// gain and loss accounts. It returns nil when there is nothing to compensate, in which case no
// configuration is required.
func (s *reconciliationService) createExchangeDifferenceMove(
	ctx context.Context,
	repos portsrepo.RepositoryProvider,
	company domain.Company,
	account domain.Account,
	lines []domain.JournalLine,
	currencies accounting.CurrencyTable,
	userID string,
	now time.Time,
) (*exchangeOutcome, error) {
	plan, err := accounting.PlanExchangeDifference(company, lines, currencies)
	if err != nil {
		return nil, err
	}

	companyCur, err := currencies.Get(company.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if account.IsReceivableOrPayable() {
		if err := s.addCashBasisSweep(ctx, repos, company, companyCur, lines, plan); err != nil {
			return nil, err
		}
	}

	if plan.IsEmpty() {
		return nil, nil
	}

	journalID, err := exchangeJournal(ctx, repos, company)
	if err != nil {
		return nil, err
	}

	move := domain.Move{
		MoveID:    uuid.NewString(),
		CompanyID: company.CompanyID,
		JournalID: journalID,
		Date:      accounting.ExchangeMoveDate(company, lines),
		Ref:       exchangeMoveRef,
		Lines:     plan.Lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := postNewMove(ctx, repos, company, &move, userID, now); err != nil {
		return nil, fmt.Errorf("posting exchange difference move: %w", err)
	}

	byID := make(map[string]domain.JournalLine, len(lines))
	for _, l := range lines {
		byID[l.LineID] = l
	}
	out := &exchangeOutcome{move: move, partials: make([]domain.PartialReconcile, 0, len(plan.Bindings))}
	for _, binding := range plan.Bindings {
		source := byID[binding.SourceLineID]
		exLine := move.Lines[binding.Sequence]
		draft := accounting.ExchangePartial(source, exLine, companyCur)
		out.partials = append(out.partials, newPartial(draft, company.CompanyID, userID, now))
	}
	if err := repos.ReconciliationRepo.SavePartials(ctx, out.partials); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Exchange difference move posted",
		slog.String("move_id", move.MoveID),
		slog.String("company_id", company.CompanyID),
		slog.Int("lines", len(move.Lines)))
	return out, nil
}

// addCashBasisSweep adds pairs for the outstanding cash-basis balances of every fully paid move.
func (s *reconciliationService) addCashBasisSweep(
	ctx context.Context,
	repos portsrepo.RepositoryProvider,
	company domain.Company,
	companyCur domain.Currency,
	lines []domain.JournalLine,
	plan *accounting.ExchangePlan,
) error {
	moveIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		moveIDs = append(moveIDs, l.MoveID)
	}
	moveIDs = uniqueStrings(moveIDs)
	sort.Strings(moveIDs)

	for _, moveID := range moveIDs {
		move, err := repos.MoveRepo.FindMoveByID(ctx, moveID)
		if err != nil {
			return err
		}
		report, err := s.cashBasis.CollectCashBasisAdjustments(ctx, *move)
		if err != nil {
			return fmt.Errorf("collecting cash basis adjustments for move %s: %w", moveID, err)
		}
		if report == nil || !report.IsFullyPaid {
			continue
		}
		accounting.AddCashBasisPairs(plan, company.CompanyID, companyCur, report.TransferAccountBalances)
	}
	return nil
}

func exchangeJournal(ctx context.Context, repos portsrepo.RepositoryProvider, company domain.Company) (string, error) {
	if company.ExchangeJournalID == nil || *company.ExchangeJournalID == "" {
		return "", fmt.Errorf("%w: company %s has no exchange difference journal configured", apperrors.ErrConfiguration, company.CompanyID)
	}
	journal, err := repos.JournalRepo.FindJournalByID(ctx, *company.ExchangeJournalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: exchange difference journal %s of company %s does not exist", apperrors.ErrConfiguration, *company.ExchangeJournalID, company.CompanyID)
		}
		return "", err
	}
	return journal.JournalID, nil
}

func newPartial(draft accounting.PartialDraft, companyID, userID string, now time.Time) domain.PartialReconcile {
	return domain.PartialReconcile{
		PartialID:            uuid.NewString(),
		CompanyID:            companyID,
		DebitLineID:          draft.DebitLineID,
		CreditLineID:         draft.CreditLineID,
		Amount:               draft.Amount,
		DebitAmountCurrency:  draft.DebitAmountCurrency,
		CreditAmountCurrency: draft.CreditAmountCurrency,
		CreatedAt:            now,
		CreatedBy:            userID,
	}
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
)

// unreconcileInTx deletes every partial touching lineIDs and every full reconcile linked to
// them, then reverses the exchange difference moves those full reconciles produced.
func (s *reconciliationService) unreconcileInTx(
	ctx context.Context,
	repos portsrepo.RepositoryProvider,
	companyID string,
	lineIDs []string,
	userID string,
	now time.Time,
) (*domain.UnreconcileResult, []domain.ReconciliationEvent, error) {
	lineIDs = uniqueStrings(lineIDs)
	if len(lineIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: no lines to unreconcile", apperrors.ErrValidation)
	}

	lines, err := lockLines(ctx, repos, lineIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, l := range lines {
		if l.CompanyID != companyID {
			return nil, nil, fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, l.LineID)
		}
	}

	partials, err := repos.ReconciliationRepo.FindPartialsByLineIDs(ctx, lineIDs)
	if err != nil {
		return nil, nil, err
	}

	fullSet := make(map[string]struct{})
	for _, l := range lines {
		if l.FullReconcileID != nil {
			fullSet[*l.FullReconcileID] = struct{}{}
		}
	}
	for _, p := range partials {
		if p.FullReconcileID != nil {
			fullSet[*p.FullReconcileID] = struct{}{}
		}
	}
	fullIDs := sortedKeys(fullSet)
	var fulls []domain.FullReconcile
	if len(fullIDs) > 0 {
		if fulls, err = repos.ReconciliationRepo.FindFullReconcilesByIDs(ctx, fullIDs); err != nil {
			return nil, nil, err
		}
	}

	result := &domain.UnreconcileResult{
		RemovedPartialIDs: partialIDs(partials),
		RemovedFullIDs:    fullIDs,
	}
	if len(partials) == 0 && len(fulls) == 0 {
		return result, nil, nil
	}

	affected := make(map[string]struct{})
	for _, l := range lines {
		affected[l.LineID] = struct{}{}
	}
	for _, p := range partials {
		affected[p.DebitLineID] = struct{}{}
		affected[p.CreditLineID] = struct{}{}
	}
	for _, f := range fulls {
		for _, id := range f.LineIDs {
			affected[id] = struct{}{}
		}
	}
	affectedLines, err := lockLines(ctx, repos, sortedKeys(affected))
	if err != nil {
		return nil, nil, err
	}

	if len(fullIDs) > 0 {
		if err := repos.ReconciliationRepo.DeleteFullReconciles(ctx, fullIDs); err != nil {
			return nil, nil, err
		}
	}
	if len(partials) > 0 {
		if err := repos.ReconciliationRepo.DeletePartials(ctx, result.RemovedPartialIDs); err != nil {
			return nil, nil, err
		}
	}

	remaining, err := repos.ReconciliationRepo.FindPartialsByLineIDs(ctx, lineIDsOf(affectedLines))
	if err != nil {
		return nil, nil, err
	}
	codes := make(map[string]struct{})
	for i := range affectedLines {
		l := &affectedLines[i]
		l.FullReconcileID = nil
		codes[l.CompanyCurrencyCode] = struct{}{}
		if l.CurrencyCode != "" {
			codes[l.CurrencyCode] = struct{}{}
		}
	}
	currencies, err := loadCurrencyTable(ctx, repos, codes)
	if err != nil {
		return nil, nil, err
	}
	if _, err := refreshResiduals(ctx, repos, affectedLines, remaining, currencies); err != nil {
		return nil, nil, err
	}

	var company *domain.Company
	for _, f := range fulls {
		if f.ExchangeMoveID == nil {
			continue
		}
		if company == nil {
			if company, err = repos.CompanyRepo.FindCompanyByID(ctx, companyID); err != nil {
				return nil, nil, err
			}
		}
		reversal, err := s.cancelExchangeMove(ctx, repos, *company, *f.ExchangeMoveID, userID, now)
		if err != nil {
			return nil, nil, err
		}
		result.ReversalMoves = append(result.ReversalMoves, *reversal)
	}

	events := []domain.ReconciliationEvent{{
		Type:       domain.EventUnreconcile,
		CompanyID:  companyID,
		LineIDs:    lineIDsOf(affectedLines),
		PartialIDs: result.RemovedPartialIDs,
		OccurredAt: now,
	}}
	return result, events, nil
}

// cancelExchangeMove posts the reversal of an exchange difference move and reconciles each of
// its open lines on a reconcilable account with the mirrored line.
func (s *reconciliationService) cancelExchangeMove(ctx context.Context, repos portsrepo.RepositoryProvider, company domain.Company, moveID string, userID string, now time.Time) (*domain.Move, error) {
	move, err := repos.MoveRepo.FindMoveByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	reversal, err := reverseMove(ctx, repos, company, *move, move.Date, userID, now)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(move.Lines))
	for _, l := range move.Lines {
		accountIDs = append(accountIDs, l.AccountID)
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, err
	}

	for i, original := range move.Lines {
		if !accounts[original.AccountID].AllowsReconciliation() {
			continue
		}
		current, err := repos.MoveRepo.FindLinesByIDs(ctx, []string{original.LineID})
		if err != nil {
			return nil, err
		}
		if len(current) == 0 || current[0].Reconciled {
			continue
		}
		pair := []string{original.LineID, reversal.Lines[i].LineID}
		opts := domain.ReconcileOptions{SkipCashBasis: true}
		if _, _, err := s.reconcileInTx(ctx, repos, company.CompanyID, pair, opts, userID, now); err != nil {
			return nil, fmt.Errorf("reconciling exchange move %s with its reversal: %w", moveID, err)
		}
	}
	return reversal, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/utils/accounting"
	"github.com/google/uuid"
)

// reconciliationService settles journal lines. Every call runs in one transaction which is
// replayed on serialization conflicts.
type reconciliationService struct {
	BaseService
	txManager portsrepo.TransactionManager
	cashBasis portssvc.CashBasisHook
	publisher portssvc.EventPublisher
	retry     RetryPolicy
}

// ReconciliationOption is a functional option for configuring the reconciliation service
type ReconciliationOption func(*reconciliationService)

// WithCashBasisHook sets the cash-basis tax collaborator.
func WithCashBasisHook(hook portssvc.CashBasisHook) ReconciliationOption {
	return func(s *reconciliationService) {
		s.cashBasis = hook
	}
}

// WithEventPublisher sets where committed reconciliations are announced.
func WithEventPublisher(publisher portssvc.EventPublisher) ReconciliationOption {
	return func(s *reconciliationService) {
		s.publisher = publisher
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(policy RetryPolicy) ReconciliationOption {
	return func(s *reconciliationService) {
		s.retry = policy
	}
}

// WithClock overrides the clock used for audit fields.
func WithClock(now func() time.Time) ReconciliationOption {
	return func(s *reconciliationService) {
		s.Now = now
	}
}

// NewReconciliationService creates the reconciliation service.
func NewReconciliationService(txManager portsrepo.TransactionManager, options ...ReconciliationOption) portssvc.ReconciliationSvc {
	svc := &reconciliationService{
		txManager: txManager,
		cashBasis: NoopCashBasisHook(),
		publisher: NoopPublisher(),
		retry:     DefaultRetryPolicy(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// Reconcile matches the lines, and everything already linked to them, in one transaction.
func (s *reconciliationService) Reconcile(ctx context.Context, companyID string, lineIDs []string, opts domain.ReconcileOptions, userID string) (*domain.ReconcileResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("company_id", companyID))

	var (
		result *domain.ReconcileResult
		events []domain.ReconciliationEvent
	)
	err := runWithRetry(ctx, s.retry, logger, "reconcile", func() error {
		return s.txManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
			var err error
			result, events, err = s.reconcileInTx(ctx, repos, companyID, lineIDs, opts, userID, s.now())
			return err
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reconciliation rejected", slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Reconciliation failed", slog.String("company_id", companyID))
		}
		return nil, err
	}

	s.publish(ctx, events)
	attrs := []any{slog.Int("line_count", len(lineIDs)), slog.Int("partial_count", len(result.Partials))}
	if result.FullReconcile != nil {
		attrs = append(attrs, slog.String("full_reconcile_id", result.FullReconcile.FullReconcileID))
	}
	if result.ExchangeMove != nil {
		attrs = append(attrs, slog.String("exchange_move_id", result.ExchangeMove.MoveID))
	}
	logger.Info("Lines reconciled", attrs...)
	return result, nil
}

// Unreconcile removes the reconciliations touching the lines in one transaction.
func (s *reconciliationService) Unreconcile(ctx context.Context, companyID string, lineIDs []string, userID string) (*domain.UnreconcileResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("company_id", companyID))

	var (
		result *domain.UnreconcileResult
		events []domain.ReconciliationEvent
	)
	err := runWithRetry(ctx, s.retry, logger, "unreconcile", func() error {
		return s.txManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
			var err error
			result, events, err = s.unreconcileInTx(ctx, repos, companyID, lineIDs, userID, s.now())
			return err
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unreconciliation rejected", slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Unreconciliation failed", slog.String("company_id", companyID))
		}
		return nil, err
	}

	s.publish(ctx, events)
	logger.Info("Lines unreconciled",
		slog.Int("line_count", len(lineIDs)),
		slog.Int("partial_count", len(result.RemovedPartialIDs)),
		slog.Int("removed_full", len(result.RemovedFullIDs)),
		slog.Int("reversals", len(result.ReversalMoves)))
	return result, nil
}

func (s *reconciliationService) publish(ctx context.Context, events []domain.ReconciliationEvent) {
	for _, event := range events {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.LogError(ctx, err, "Failed to publish reconciliation event", slog.String("type", string(event.Type)))
		}
	}
}

// reconcileInTx is the whole reconcile state machine: validate, collect, match, check, compensate, close.
func (s *reconciliationService) reconcileInTx(
	ctx context.Context,
	repos portsrepo.RepositoryProvider,
	companyID string,
	lineIDs []string,
	opts domain.ReconcileOptions,
	userID string,
	now time.Time,
) (*domain.ReconcileResult, []domain.ReconciliationEvent, error) {
	lineIDs = uniqueStrings(lineIDs)
	if len(lineIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: no lines to reconcile", apperrors.ErrValidation)
	}

	lines, err := lockLines(ctx, repos, lineIDs)
	if err != nil {
		return nil, nil, err
	}
	account, err := s.validateLines(ctx, repos, lines)
	if err != nil {
		return nil, nil, err
	}
	if lines[0].CompanyID != companyID {
		return nil, nil, fmt.Errorf("%w: lines belong to company %s, not %s", apperrors.ErrValidation, lines[0].CompanyID, companyID)
	}

	company, err := repos.CompanyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}

	closure, existing, err := collectClosure(ctx, repos, lines)
	if err != nil {
		return nil, nil, err
	}

	codes := map[string]struct{}{company.CurrencyCode: {}}
	for _, l := range closure {
		codes[l.CompanyCurrencyCode] = struct{}{}
		if l.CurrencyCode != "" {
			codes[l.CurrencyCode] = struct{}{}
		}
	}
	currencies, err := loadCurrencyTable(ctx, repos, codes)
	if err != nil {
		return nil, nil, err
	}

	accounting.SortForMatching(closure)
	drafts, err := accounting.PrepareReconciliationPartials(ctx, closure, currencies, newRateConverter(repos.ExchangeRateRepo))
	if err != nil {
		return nil, nil, err
	}

	created := make([]domain.PartialReconcile, 0, len(drafts))
	for _, draft := range drafts {
		created = append(created, newPartial(draft, company.CompanyID, userID, now))
	}
	if len(created) > 0 {
		if err := repos.ReconciliationRepo.SavePartials(ctx, created); err != nil {
			return nil, nil, err
		}
	}

	partials := append(existing, created...)
	if closure, err = refreshResiduals(ctx, repos, closure, partials, currencies); err != nil {
		return nil, nil, err
	}

	if account.IsReceivableOrPayable() && !opts.SkipCashBasis && len(created) > 0 {
		if err := s.cashBasis.CreateCashBasisEntries(ctx, *company, created); err != nil {
			return nil, nil, fmt.Errorf("creating cash basis entries: %w", err)
		}
	}

	result := &domain.ReconcileResult{Partials: created}
	var events []domain.ReconciliationEvent
	if len(created) > 0 {
		events = append(events, domain.ReconciliationEvent{
			Type:       domain.EventPartialReconcile,
			CompanyID:  company.CompanyID,
			LineIDs:    lineIDs,
			PartialIDs: partialIDs(created),
			OccurredAt: now,
		})
	}

	full, err := accounting.IsFullyReconciled(closure, currencies)
	if err != nil {
		return nil, nil, err
	}
	if !full {
		return result, events, nil
	}

	if !opts.SkipExchangeDifference {
		outcome, err := s.createExchangeDifferenceMove(ctx, repos, *company, account, closure, currencies, userID, now)
		if err != nil {
			return nil, nil, err
		}
		if outcome != nil {
			for _, l := range outcome.move.Lines {
				if l.AccountID == account.AccountID {
					closure = append(closure, l)
				}
			}
			partials = append(partials, outcome.partials...)
			result.Partials = append(result.Partials, outcome.partials...)
			if closure, err = refreshResiduals(ctx, repos, closure, partials, currencies); err != nil {
				return nil, nil, err
			}
			move := outcome.move
			result.ExchangeMove = &move
		}
	}

	fullRec := domain.FullReconcile{
		FullReconcileID: uuid.NewString(),
		CompanyID:       company.CompanyID,
		PartialIDs:      partialIDs(partials),
		LineIDs:         lineIDsOf(closure),
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if result.ExchangeMove != nil {
		moveID := result.ExchangeMove.MoveID
		fullRec.ExchangeMoveID = &moveID
	}
	if err := repos.ReconciliationRepo.SaveFullReconcile(ctx, fullRec); err != nil {
		return nil, nil, err
	}
	for i := range result.Partials {
		result.Partials[i].FullReconcileID = &fullRec.FullReconcileID
	}
	result.FullReconcile = &fullRec

	events = append(events, domain.ReconciliationEvent{
		Type:            domain.EventFullReconcile,
		CompanyID:       company.CompanyID,
		LineIDs:         fullRec.LineIDs,
		PartialIDs:      fullRec.PartialIDs,
		FullReconcileID: &fullRec.FullReconcileID,
		ExchangeMoveID:  fullRec.ExchangeMoveID,
		OccurredAt:      now,
	})
	return result, events, nil
}

// validateLines rejects reconciled lines, non-reconcilable accounts, unposted moves and groups
// spanning several companies or accounts. It returns the common account.
func (s *reconciliationService) validateLines(ctx context.Context, repos portsrepo.RepositoryProvider, lines []domain.JournalLine) (domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	moveIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		accountIDs = append(accountIDs, l.AccountID)
		moveIDs = append(moveIDs, l.MoveID)
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return domain.Account{}, err
	}
	moves, err := repos.MoveRepo.FindMovesByIDs(ctx, uniqueStrings(moveIDs))
	if err != nil {
		return domain.Account{}, err
	}

	for _, l := range lines {
		if l.Reconciled {
			return domain.Account{}, fmt.Errorf("%w: you are trying to reconcile some entries that are already reconciled: line %s", apperrors.ErrValidation, l.LineID)
		}
		account, ok := accounts[l.AccountID]
		if !ok {
			return domain.Account{}, fmt.Errorf("%w: account %s of line %s", apperrors.ErrNotFound, l.AccountID, l.LineID)
		}
		if !account.AllowsReconciliation() {
			return domain.Account{}, fmt.Errorf("%w: account %s does not allow reconciliation; allow it on the account first", apperrors.ErrValidation, account.DisplayName())
		}
		move, ok := moves[l.MoveID]
		if !ok {
			return domain.Account{}, fmt.Errorf("%w: move %s of line %s", apperrors.ErrNotFound, l.MoveID, l.LineID)
		}
		if !move.IsPosted() {
			return domain.Account{}, fmt.Errorf("%w: you can only reconcile posted entries; move %s is %s", apperrors.ErrValidation, move.MoveID, move.State)
		}
	}

	first := lines[0]
	for _, l := range lines[1:] {
		if l.CompanyID != first.CompanyID {
			return domain.Account{}, fmt.Errorf("%w: entries are not from the same company: %s and %s", apperrors.ErrValidation, first.CompanyID, l.CompanyID)
		}
	}
	for _, l := range lines[1:] {
		if l.AccountID != first.AccountID {
			return domain.Account{}, fmt.Errorf("%w: entries are not from the same account: %s and %s",
				apperrors.ErrValidation, accounts[first.AccountID].DisplayName(), accounts[l.AccountID].DisplayName())
		}
	}
	return accounts[first.AccountID], nil
}

// lockLines locks the lines and returns them in the order of ids.
func lockLines(ctx context.Context, repos portsrepo.RepositoryProvider, ids []string) ([]domain.JournalLine, error) {
	found, err := repos.MoveRepo.LockLinesForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.JournalLine, len(found))
	for _, l := range found {
		byID[l.LineID] = l
	}
	lines := make([]domain.JournalLine, 0, len(ids))
	var missing []string
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		lines = append(lines, l)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: journal lines %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}
	return lines, nil
}

// collectClosure grows lines with every line reachable through existing partials until nothing
// new is found. It returns the closure and the partials connecting it.
func collectClosure(ctx context.Context, repos portsrepo.RepositoryProvider, lines []domain.JournalLine) ([]domain.JournalLine, []domain.PartialReconcile, error) {
	closure := append([]domain.JournalLine(nil), lines...)
	inClosure := make(map[string]struct{}, len(lines))
	frontier := make([]string, 0, len(lines))
	for _, l := range lines {
		inClosure[l.LineID] = struct{}{}
		frontier = append(frontier, l.LineID)
	}

	var partials []domain.PartialReconcile
	seenPartials := make(map[string]struct{})
	for len(frontier) > 0 {
		found, err := repos.ReconciliationRepo.FindPartialsByLineIDs(ctx, frontier)
		if err != nil {
			return nil, nil, err
		}
		var next []string
		for _, p := range found {
			if _, ok := seenPartials[p.PartialID]; ok {
				continue
			}
			seenPartials[p.PartialID] = struct{}{}
			partials = append(partials, p)
			for _, id := range []string{p.DebitLineID, p.CreditLineID} {
				if _, ok := inClosure[id]; ok {
					continue
				}
				inClosure[id] = struct{}{}
				next = append(next, id)
			}
		}
		if len(next) == 0 {
			break
		}
		more, err := lockLines(ctx, repos, next)
		if err != nil {
			return nil, nil, err
		}
		closure = append(closure, more...)
		frontier = next
	}

	sort.SliceStable(partials, func(i, j int) bool {
		return partials[i].CreatedAt.Before(partials[j].CreatedAt)
	})
	return closure, partials, nil
}

// refreshResiduals recomputes and stores the residuals of lines from partials.
func refreshResiduals(ctx context.Context, repos portsrepo.RepositoryProvider, lines []domain.JournalLine, partials []domain.PartialReconcile, currencies accounting.CurrencyTable) ([]domain.JournalLine, error) {
	byLine := make(map[string][]domain.PartialReconcile, len(lines))
	for _, p := range partials {
		byLine[p.DebitLineID] = append(byLine[p.DebitLineID], p)
		if p.CreditLineID != p.DebitLineID {
			byLine[p.CreditLineID] = append(byLine[p.CreditLineID], p)
		}
	}

	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		updated, err := accounting.ComputeResidual(l, byLine[l.LineID], currencies)
		if err != nil {
			return nil, err
		}
		out[i] = updated
	}
	if err := repos.MoveRepo.UpdateLineResiduals(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func partialIDs(partials []domain.PartialReconcile) []string {
	ids := make([]string, len(partials))
	for i, p := range partials {
		ids[i] = p.PartialID
	}
	return ids
}

func lineIDsOf(lines []domain.JournalLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.LineID
	}
	return ids
}

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
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// moveService provides move posting and line maintenance.
type moveService struct {
	BaseService
	txManager portsrepo.TransactionManager
	repos     portsrepo.RepositoryProvider
}

// NewMoveService creates a new move service. Reads use repos directly; writes run in txManager.
func NewMoveService(txManager portsrepo.TransactionManager, repos portsrepo.RepositoryProvider) portssvc.MoveSvcFacade {
	return &moveService{txManager: txManager, repos: repos}
}

var _ portssvc.MoveSvcFacade = (*moveService)(nil)

// CreateMove builds a move from the request and saves it, posted or as a draft.
func (s *moveService) CreateMove(ctx context.Context, companyID string, req dto.CreateMoveRequest, userID string) (*domain.Move, error) {
	now := s.now()
	move := domain.Move{
		MoveID:    uuid.NewString(),
		CompanyID: companyID,
		JournalID: req.JournalID,
		Date:      req.Date,
		Ref:       req.Ref,
		State:     domain.MoveDraft,
		Lines:     make([]domain.JournalLine, len(req.Lines)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	for i, lineReq := range req.Lines {
		if lineReq.Debit.IsNegative() || lineReq.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: debit and credit cannot be negative", apperrors.ErrValidation, i+1)
		}
		if lineReq.Debit.IsPositive() && lineReq.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: line %d: only one of debit and credit may be set", apperrors.ErrValidation, i+1)
		}
		if lineReq.CurrencyCode != nil && lineReq.AmountCurrency.Sign()*lineReq.Debit.Sub(lineReq.Credit).Sign() < 0 {
			return nil, fmt.Errorf("%w: line %d: amount in currency and balance have opposite signs", apperrors.ErrValidation, i+1)
		}
		line := domain.JournalLine{
			AccountID:      lineReq.AccountID,
			PartnerID:      lineReq.PartnerID,
			Name:           lineReq.Name,
			Sequence:       i,
			DateMaturity:   lineReq.DateMaturity,
			Balance:        lineReq.Debit.Sub(lineReq.Credit),
			AmountCurrency: lineReq.AmountCurrency,
		}
		if lineReq.CurrencyCode != nil {
			line.CurrencyCode = *lineReq.CurrencyCode
		}
		move.Lines[i] = line
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		company, err := repos.CompanyRepo.FindCompanyByID(ctx, companyID)
		if err != nil {
			return err
		}
		journal, err := repos.JournalRepo.FindJournalByID(ctx, move.JournalID)
		if err != nil {
			return err
		}
		if journal.CompanyID != companyID {
			return fmt.Errorf("%w: journal %s belongs to company %s", apperrors.ErrValidation, journal.JournalID, journal.CompanyID)
		}
		if req.Post {
			return postNewMove(ctx, repos, *company, &move, userID, now)
		}
		if err := prepareMoveLines(ctx, repos, *company, &move, false, userID, now); err != nil {
			return err
		}
		return repos.MoveRepo.SaveMove(ctx, move)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create move", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Move created",
		slog.String("move_id", move.MoveID),
		slog.String("company_id", companyID),
		slog.String("state", string(move.State)))
	return &move, nil
}

// PostMove posts a draft move.
func (s *moveService) PostMove(ctx context.Context, companyID string, moveID string, userID string) (*domain.Move, error) {
	var posted *domain.Move
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		move, err := findCompanyMove(ctx, repos, companyID, moveID)
		if err != nil {
			return err
		}
		if move.State != domain.MoveDraft {
			return fmt.Errorf("%w: move %s is %s, only draft moves can be posted", apperrors.ErrValidation, moveID, move.State)
		}
		company, err := repos.CompanyRepo.FindCompanyByID(ctx, companyID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := prepareMoveLines(ctx, repos, *company, move, true, userID, now); err != nil {
			return err
		}
		if err := repos.MoveRepo.UpdateLineResiduals(ctx, move.Lines); err != nil {
			return err
		}
		if err := repos.MoveRepo.UpdateMoveState(ctx, moveID, domain.MovePosted, userID, now); err != nil {
			return err
		}
		move.State = domain.MovePosted
		move.LastUpdatedAt = now
		move.LastUpdatedBy = userID
		posted = move
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post move", slog.String("move_id", moveID))
		return nil, err
	}
	return posted, nil
}

// GetMoveByID retrieves a move of a company together with its lines.
func (s *moveService) GetMoveByID(ctx context.Context, companyID string, moveID string) (*domain.Move, error) {
	return findCompanyMove(ctx, s.repos, companyID, moveID)
}

// ListOpenLines lists the unreconciled lines of an account.
func (s *moveService) ListOpenLines(ctx context.Context, companyID string, accountID string, params dto.ListOpenLinesParams) (*dto.ListOpenLinesResponse, error) {
	account, err := s.repos.AccountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	lines, nextToken, err := s.repos.MoveRepo.ListOpenLinesByAccount(ctx, companyID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open lines", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.ListOpenLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// UpdateLine edits a line. Lines that take part in a reconciliation keep their amounts and account.
func (s *moveService) UpdateLine(ctx context.Context, companyID string, lineID string, req dto.UpdateLineRequest, userID string) (*domain.JournalLine, error) {
	var updated domain.JournalLine
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		lines, err := repos.MoveRepo.LockLinesForUpdate(ctx, []string{lineID})
		if err != nil {
			return err
		}
		if len(lines) == 0 || lines[0].CompanyID != companyID {
			return fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, lineID)
		}
		line := lines[0]

		changesAmounts := req.Debit != nil || req.Credit != nil
		changesAccount := req.AccountID != nil && *req.AccountID != line.AccountID
		posted := false
		if changesAmounts || changesAccount {
			moves, err := repos.MoveRepo.FindMovesByIDs(ctx, []string{line.MoveID})
			if err != nil {
				return err
			}
			move, ok := moves[line.MoveID]
			if !ok {
				return fmt.Errorf("%w: move %s", apperrors.ErrNotFound, line.MoveID)
			}
			if err := guardReconciledLine(ctx, repos, line); err != nil {
				return err
			}
			posted = move.IsPosted()
			if changesAmounts && posted {
				return fmt.Errorf("%w: amounts of posted move %s cannot be changed", apperrors.ErrValidation, move.MoveID)
			}
		}

		if req.Name != nil {
			line.Name = *req.Name
		}
		if req.PartnerID != nil {
			line.PartnerID = req.PartnerID
		}
		if req.DateMaturity != nil {
			line.DateMaturity = req.DateMaturity
		}
		if changesAmounts {
			debit, credit := line.Debit(), line.Credit()
			if req.Debit != nil {
				debit = *req.Debit
			}
			if req.Credit != nil {
				credit = *req.Credit
			}
			if debit.IsNegative() || credit.IsNegative() || (debit.IsPositive() && credit.IsPositive()) {
				return fmt.Errorf("%w: a line carries either a debit or a credit", apperrors.ErrValidation)
			}
			line.Balance = debit.Sub(credit)
		}
		if changesAccount {
			accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, []string{*req.AccountID})
			if err != nil {
				return err
			}
			account, ok := accounts[*req.AccountID]
			if !ok || account.CompanyID != companyID {
				return fmt.Errorf("%w: account %s does not exist in company %s", apperrors.ErrValidation, *req.AccountID, companyID)
			}
			line.AccountID = account.AccountID
			// Draft lines get their residual when posted.
			if posted {
				line = accounting.InitialResidual(line, account.AllowsReconciliation())
			}
		}

		line.LastUpdatedAt = s.now()
		line.LastUpdatedBy = userID
		if err := repos.MoveRepo.UpdateLine(ctx, line); err != nil {
			return err
		}
		updated = line
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update line", slog.String("line_id", lineID))
		}
		return nil, err
	}
	return &updated, nil
}

// guardReconciledLine rejects structural edits on a line that takes part in a reconciliation.
func guardReconciledLine(ctx context.Context, repos portsrepo.RepositoryProvider, line domain.JournalLine) error {
	if line.Reconciled || line.FullReconcileID != nil {
		return fmt.Errorf("%w: line %s is reconciled; unreconcile it before changing its amounts or account", apperrors.ErrValidation, line.LineID)
	}
	partials, err := repos.ReconciliationRepo.FindPartialsByLineIDs(ctx, []string{line.LineID})
	if err != nil {
		return err
	}
	if len(partials) > 0 {
		return fmt.Errorf("%w: line %s is partially reconciled; unreconcile it before changing its amounts or account", apperrors.ErrValidation, line.LineID)
	}
	return nil
}

func findCompanyMove(ctx context.Context, repos portsrepo.RepositoryProvider, companyID, moveID string) (*domain.Move, error) {
	move, err := repos.MoveRepo.FindMoveByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if move.CompanyID != companyID {
		return nil, fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)
	}
	return move, nil
}

// postNewMove validates move, seeds the residuals of its lines and saves it as posted.
func postNewMove(ctx context.Context, repos portsrepo.RepositoryProvider, company domain.Company, move *domain.Move, userID string, now time.Time) error {
	if err := prepareMoveLines(ctx, repos, company, move, true, userID, now); err != nil {
		return err
	}
	move.State = domain.MovePosted
	return repos.MoveRepo.SaveMove(ctx, *move)
}

// prepareMoveLines fills the derived fields of every line and checks that the move can be saved.
// With posting set it also checks balance and lock date and seeds the line residuals.
func prepareMoveLines(ctx context.Context, repos portsrepo.RepositoryProvider, company domain.Company, move *domain.Move, posting bool, userID string, now time.Time) error {
	if len(move.Lines) == 0 {
		return fmt.Errorf("%w: move has no lines", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(move.Lines))
	codes := map[string]struct{}{company.CurrencyCode: {}}
	for _, line := range move.Lines {
		accountIDs = append(accountIDs, line.AccountID)
		if line.CurrencyCode != "" {
			codes[line.CurrencyCode] = struct{}{}
		}
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return err
	}
	currencies, err := loadCurrencyTable(ctx, repos, codes)
	if err != nil {
		return err
	}
	companyCur, err := currencies.Get(company.CurrencyCode)
	if err != nil {
		return err
	}

	for i := range move.Lines {
		line := &move.Lines[i]
		account, ok := accounts[line.AccountID]
		if !ok || account.CompanyID != company.CompanyID {
			return fmt.Errorf("%w: account %s does not exist in company %s", apperrors.ErrValidation, line.AccountID, company.CompanyID)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.DisplayName())
		}
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		line.MoveID = move.MoveID
		line.CompanyID = company.CompanyID
		line.CompanyCurrencyCode = company.CurrencyCode
		line.Date = move.Date
		line.Balance = companyCur.Round(line.Balance)
		if line.CurrencyCode == company.CurrencyCode {
			line.CurrencyCode = ""
		}
		if line.HasForeignCurrency() {
			cur, err := currencies.Get(line.CurrencyCode)
			if err != nil {
				return fmt.Errorf("%w: line %d: unknown currency %s", apperrors.ErrValidation, i+1, line.CurrencyCode)
			}
			line.AmountCurrency = cur.Round(line.AmountCurrency)
		} else {
			line.AmountCurrency = decimal.Zero
		}
		if line.CreatedAt.IsZero() {
			line.CreatedAt = now
			line.CreatedBy = userID
		}
		line.LastUpdatedAt = now
		line.LastUpdatedBy = userID

		if posting {
			*line = accounting.InitialResidual(*line, account.AllowsReconciliation())
		}
	}

	if !posting {
		return nil
	}
	if company.FiscalLockDate != nil && !move.Date.After(*company.FiscalLockDate) {
		return fmt.Errorf("%w: move date %s is inside the period locked until %s", apperrors.ErrValidation,
			move.Date.Format(time.DateOnly), company.FiscalLockDate.Format(time.DateOnly))
	}
	return accounting.ValidateMoveBalance(move.Lines, companyCur)
}

// reverseMove posts the mirror image of move, dated on the first unlocked day on or after date.
func reverseMove(ctx context.Context, repos portsrepo.RepositoryProvider, company domain.Company, move domain.Move, date time.Time, userID string, now time.Time) (*domain.Move, error) {
	originalID := move.MoveID
	reversal := domain.Move{
		MoveID:          uuid.NewString(),
		CompanyID:       move.CompanyID,
		JournalID:       move.JournalID,
		Date:            company.AccountingDate(date),
		Ref:             "Reversal of: " + move.Ref,
		ReversedEntryID: &originalID,
		Lines:           make([]domain.JournalLine, len(move.Lines)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i, line := range move.Lines {
		reversal.Lines[i] = domain.JournalLine{
			AccountID:      line.AccountID,
			PartnerID:      line.PartnerID,
			Name:           line.Name,
			Sequence:       line.Sequence,
			CurrencyCode:   line.CurrencyCode,
			Balance:        line.Balance.Neg(),
			AmountCurrency: line.AmountCurrency.Neg(),
		}
	}
	if err := postNewMove(ctx, repos, company, &reversal, userID, now); err != nil {
		return nil, fmt.Errorf("reversing move %s: %w", originalID, err)
	}
	return &reversal, nil
}

func loadCurrencyTable(ctx context.Context, repos portsrepo.RepositoryProvider, codes map[string]struct{}) (accounting.CurrencyTable, error) {
	list := make([]string, 0, len(codes))
	for code := range codes {
		list = append(list, code)
	}
	sort.Strings(list)
	found, err := repos.CurrencyRepo.FindCurrenciesByCodes(ctx, list)
	if err != nil {
		return nil, err
	}
	table := make(accounting.CurrencyTable, len(found))
	for code, cur := range found {
		table[code] = cur
	}
	return table, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

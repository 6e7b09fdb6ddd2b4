package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/core/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/SscSPs/money_reconcile/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testUser    = "user-1"
	companyID   = "company-1"
	otherCoID   = "company-2"
	journalMisc = "journal-misc"
	journalFX   = "journal-fx"
	journalCo2  = "journal-co2"

	accMatch      = "acc-match"
	accMatchCo2   = "acc-match-co2"
	accOther      = "acc-other"
	accOtherCo2   = "acc-other-co2"
	accSecond     = "acc-second"
	accPlain      = "acc-plain"
	accReceivable = "acc-receivable"
	accGain       = "acc-fx-gain"
	accLoss       = "acc-fx-loss"
	accTaxTmp     = "acc-tax-transfer"
	accTaxFinal   = "acc-tax-final"
)

var (
	fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	day1     = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ledgerSuite seeds an in-memory ledger: company-1 (USD) with exchange difference settings,
// company-2 (USD) without, and EUR/GBP rates against USD.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	repos portsrepo.RepositoryProvider
	moves portssvc.MoveSvcFacade
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.repos = s.store.Repositories()
	s.moves = services.NewMoveService(s.store, s.repos)

	audit := domain.AuditFields{CreatedAt: fixedNow, CreatedBy: testUser, LastUpdatedAt: fixedNow, LastUpdatedBy: testUser}
	for _, c := range []domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2, AuditFields: audit},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2, AuditFields: audit},
		{CurrencyCode: "GBP", Symbol: "£", Name: "Pound Sterling", Precision: 2, AuditFields: audit},
	} {
		s.Require().NoError(s.repos.CurrencyRepo.SaveCurrency(s.ctx, c))
	}

	s.Require().NoError(s.repos.CompanyRepo.SaveCompany(s.ctx, domain.Company{
		CompanyID:                companyID,
		Name:                     "Acme",
		CurrencyCode:             "USD",
		ExchangeJournalID:        strPtr(journalFX),
		IncomeExchangeAccountID:  strPtr(accGain),
		ExpenseExchangeAccountID: strPtr(accLoss),
		AuditFields:              audit,
	}))
	s.Require().NoError(s.repos.CompanyRepo.SaveCompany(s.ctx, domain.Company{
		CompanyID:    otherCoID,
		Name:         "Globex",
		CurrencyCode: "USD",
		AuditFields:  audit,
	}))

	for _, j := range []domain.Journal{
		{JournalID: journalMisc, CompanyID: companyID, Code: "MISC", Name: "Miscellaneous", Type: domain.JournalGeneral, AuditFields: audit},
		{JournalID: journalFX, CompanyID: companyID, Code: "EXCH", Name: "Exchange Difference", Type: domain.JournalGeneral, AuditFields: audit},
		{JournalID: journalCo2, CompanyID: otherCoID, Code: "MISC", Name: "Miscellaneous", Type: domain.JournalGeneral, AuditFields: audit},
	} {
		s.Require().NoError(s.repos.JournalRepo.SaveJournal(s.ctx, j))
	}

	for _, a := range []domain.Account{
		{AccountID: accMatch, CompanyID: companyID, Code: "1100", Name: "Clearing", Capabilities: domain.CapReconcilable},
		{AccountID: accSecond, CompanyID: companyID, Code: "1110", Name: "Second clearing", Capabilities: domain.CapReconcilable},
		{AccountID: accOther, CompanyID: companyID, Code: "4000", Name: "Revenue"},
		{AccountID: accPlain, CompanyID: companyID, Code: "6000", Name: "Office supplies"},
		{AccountID: accReceivable, CompanyID: companyID, Code: "1200", Name: "Receivable", Capabilities: domain.CapReconcilable | domain.CapReceivable},
		{AccountID: accGain, CompanyID: companyID, Code: "7700", Name: "Exchange gain"},
		{AccountID: accLoss, CompanyID: companyID, Code: "6600", Name: "Exchange loss"},
		{AccountID: accTaxTmp, CompanyID: companyID, Code: "2410", Name: "Tax transfer"},
		{AccountID: accTaxFinal, CompanyID: companyID, Code: "2400", Name: "Tax payable"},
		{AccountID: accMatchCo2, CompanyID: otherCoID, Code: "1100", Name: "Clearing", Capabilities: domain.CapReconcilable},
		{AccountID: accOtherCo2, CompanyID: otherCoID, Code: "4000", Name: "Revenue"},
	} {
		a.IsActive = true
		a.AuditFields = audit
		s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, a))
	}

	for _, r := range []domain.ExchangeRate{
		{ExchangeRateID: "rate-eur", FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: amount("1.1"), DateEffective: day1.AddDate(0, -1, 0), AuditFields: audit},
		{ExchangeRateID: "rate-gbp", FromCurrencyCode: "GBP", ToCurrencyCode: "USD", Rate: amount("1.25"), DateEffective: day1.AddDate(0, -1, 0), AuditFields: audit},
	} {
		s.Require().NoError(s.repos.ExchangeRateRepo.SaveExchangeRate(s.ctx, r))
	}
}

// lineDef describes the first line of a two-line move; the counterpart balances it.
type lineDef struct {
	company        string
	journal        string
	account        string
	counterpart    string
	day            int
	balance        string
	currency       string
	amountCurrency string
	draft          bool
}

// post creates a move for def and returns the ID of its first line.
func (s *ledgerSuite) post(def lineDef) string {
	if def.company == "" {
		def.company = companyID
	}
	if def.journal == "" {
		def.journal = journalMisc
	}
	if def.account == "" {
		def.account = accMatch
	}
	if def.counterpart == "" {
		def.counterpart = accOther
	}

	balance := amount(def.balance)
	first := dto.CreateLineRequest{AccountID: def.account, Name: "line"}
	second := dto.CreateLineRequest{AccountID: def.counterpart, Name: "counterpart"}
	if balance.IsPositive() {
		first.Debit, second.Credit = balance, balance
	} else {
		first.Credit, second.Debit = balance.Neg(), balance.Neg()
	}
	if def.currency != "" {
		first.CurrencyCode = strPtr(def.currency)
		first.AmountCurrency = amount(def.amountCurrency)
		second.CurrencyCode = strPtr(def.currency)
		second.AmountCurrency = amount(def.amountCurrency).Neg()
	}

	move, err := s.moves.CreateMove(s.ctx, def.company, dto.CreateMoveRequest{
		JournalID: def.journal,
		Date:      day1.AddDate(0, 0, def.day),
		Ref:       "test",
		Post:      !def.draft,
		Lines:     []dto.CreateLineRequest{first, second},
	}, testUser)
	s.Require().NoError(err)
	return move.Lines[0].LineID
}

func (s *ledgerSuite) line(lineID string) domain.JournalLine {
	lines, err := s.repos.MoveRepo.FindLinesByIDs(s.ctx, []string{lineID})
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	return lines[0]
}

func (s *ledgerSuite) partialsOf(lineIDs ...string) []domain.PartialReconcile {
	partials, err := s.repos.ReconciliationRepo.FindPartialsByLineIDs(s.ctx, lineIDs)
	s.Require().NoError(err)
	return partials
}

func (s *ledgerSuite) assertAmount(label, expected string, actual decimal.Decimal) {
	s.Truef(amount(expected).Equal(actual), "%s: expected %s, got %s", label, expected, actual.String())
}

func (s *ledgerSuite) assertResidual(lineID, residual, residualCurrency string) {
	l := s.line(lineID)
	s.assertAmount("residual of "+lineID, residual, l.AmountResidual)
	s.assertAmount("residual currency of "+lineID, residualCurrency, l.AmountResidualCurrency)
}

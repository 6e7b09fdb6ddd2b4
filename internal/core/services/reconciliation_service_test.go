package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/SscSPs/money_reconcile/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock collaborators ---

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.ReconciliationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockCashBasisHook struct {
	mock.Mock
}

func (m *MockCashBasisHook) CreateCashBasisEntries(ctx context.Context, company domain.Company, partials []domain.PartialReconcile) error {
	args := m.Called(ctx, company, partials)
	return args.Error(0)
}

func (m *MockCashBasisHook) CollectCashBasisAdjustments(ctx context.Context, move domain.Move) (*domain.CashBasisReport, error) {
	args := m.Called(ctx, move)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBasisReport), args.Error(1)
}

// --- Test Suite ---

type ReconciliationServiceTestSuite struct {
	ledgerSuite
	service portssvc.ReconciliationSvc
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.ledgerSuite.SetupTest()
	suite.service = suite.newService()
}

func (suite *ReconciliationServiceTestSuite) newService(opts ...services.ReconciliationOption) portssvc.ReconciliationSvc {
	base := []services.ReconciliationOption{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithRetryPolicy(services.RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxElapsedTime: time.Second}),
	}
	return services.NewReconciliationService(suite.store, append(base, opts...)...)
}

func (suite *ReconciliationServiceTestSuite) reconcile(lineIDs ...string) *domain.ReconcileResult {
	result, err := suite.service.Reconcile(suite.ctx, companyID, lineIDs, domain.ReconcileOptions{}, testUser)
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	return result
}

// --- Test Cases ---

func (suite *ReconciliationServiceTestSuite) TestReconcile_CompanyCurrencyExactMatch() {
	a := suite.post(lineDef{balance: "100.00"})
	b := suite.post(lineDef{day: 1, balance: "-100.00"})

	result := suite.reconcile(a, b)

	suite.Require().Len(result.Partials, 1)
	suite.assertAmount("partial amount", "100", result.Partials[0].Amount)
	suite.Equal(a, result.Partials[0].DebitLineID)
	suite.Equal(b, result.Partials[0].CreditLineID)
	suite.Nil(result.ExchangeMove)
	suite.Require().NotNil(result.FullReconcile)
	suite.Nil(result.FullReconcile.ExchangeMoveID)
	suite.ElementsMatch([]string{a, b}, result.FullReconcile.LineIDs)

	for _, id := range []string{a, b} {
		line := suite.line(id)
		suite.True(line.Reconciled)
		suite.Require().NotNil(line.FullReconcileID)
		suite.Equal(result.FullReconcile.FullReconcileID, *line.FullReconcileID)
		suite.assertResidual(id, "0", "0")
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SameForeignCurrencyBooksLossForCompanyDust() {
	a := suite.post(lineDef{balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{day: 1, balance: "-99.50", currency: "EUR", amountCurrency: "-90.00"})

	result := suite.reconcile(a, b)

	suite.Require().Len(result.Partials, 2)
	match := result.Partials[0]
	suite.assertAmount("matched amount", "99.50", match.Amount)
	suite.assertAmount("debit currency", "90", match.DebitAmountCurrency)
	suite.assertAmount("credit currency", "90", match.CreditAmountCurrency)

	suite.Require().NotNil(result.ExchangeMove)
	move := result.ExchangeMove
	suite.Equal(journalFX, move.JournalID)
	suite.Equal(domain.MovePosted, move.State)
	suite.Equal(day1.AddDate(0, 0, 1), move.Date)
	suite.Require().Len(move.Lines, 2)
	suite.Equal(accMatch, move.Lines[0].AccountID)
	suite.assertAmount("offset line", "-0.50", move.Lines[0].Balance)
	suite.Equal(accLoss, move.Lines[1].AccountID)
	suite.assertAmount("loss line", "0.50", move.Lines[1].Balance)

	exchange := result.Partials[1]
	suite.Equal(a, exchange.DebitLineID)
	suite.Equal(move.Lines[0].LineID, exchange.CreditLineID)
	suite.assertAmount("exchange partial", "0.50", exchange.Amount)

	suite.Require().NotNil(result.FullReconcile)
	suite.Require().NotNil(result.FullReconcile.ExchangeMoveID)
	suite.Equal(move.MoveID, *result.FullReconcile.ExchangeMoveID)
	suite.ElementsMatch([]string{a, b, move.Lines[0].LineID}, result.FullReconcile.LineIDs)
	suite.Len(result.FullReconcile.PartialIDs, 2)

	suite.assertResidual(a, "0", "0")
	suite.assertResidual(b, "0", "0")
	suite.assertResidual(move.Lines[0].LineID, "0", "0")
	suite.True(suite.line(move.Lines[0].LineID).Reconciled)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ZeroCurrencyLineAbsorbsCompanyDust() {
	a := suite.post(lineDef{balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{day: 1, balance: "-99.50", currency: "EUR", amountCurrency: "-90.00"})
	c := suite.post(lineDef{day: 2, balance: "-0.50", currency: "EUR", amountCurrency: "0.00"})

	result := suite.reconcile(a, b, c)

	suite.Require().Len(result.Partials, 2)
	suite.Equal(a, result.Partials[0].DebitLineID)
	suite.Equal(b, result.Partials[0].CreditLineID)
	suite.assertAmount("matched amount", "99.50", result.Partials[0].Amount)

	dust := result.Partials[1]
	suite.Equal(a, dust.DebitLineID)
	suite.Equal(c, dust.CreditLineID)
	suite.assertAmount("dust amount", "0.50", dust.Amount)
	suite.assertAmount("dust debit currency", "0", dust.DebitAmountCurrency)
	suite.assertAmount("dust credit currency", "0", dust.CreditAmountCurrency)

	suite.Nil(result.ExchangeMove)
	suite.Require().NotNil(result.FullReconcile)
	suite.Nil(result.FullReconcile.ExchangeMoveID)
	suite.ElementsMatch([]string{a, b, c}, result.FullReconcile.LineIDs)
	for _, id := range []string{a, b, c} {
		suite.assertResidual(id, "0", "0")
		suite.True(suite.line(id).Reconciled)
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_UnderpaidGroupStaysPartial() {
	d1 := suite.post(lineDef{day: 0, balance: "50.00"})
	d2 := suite.post(lineDef{day: 1, balance: "60.00"})
	c := suite.post(lineDef{day: 2, balance: "-100.00"})

	result := suite.reconcile(c, d2, d1)

	suite.Require().Len(result.Partials, 2)
	suite.Equal(d1, result.Partials[0].DebitLineID)
	suite.assertAmount("first partial", "50", result.Partials[0].Amount)
	suite.Equal(d2, result.Partials[1].DebitLineID)
	suite.assertAmount("second partial", "50", result.Partials[1].Amount)
	suite.Nil(result.FullReconcile)
	suite.Nil(result.ExchangeMove)

	suite.assertResidual(d1, "0", "0")
	suite.assertResidual(d2, "10", "0")
	suite.assertResidual(c, "0", "0")
	suite.True(suite.line(d1).Reconciled)
	suite.False(suite.line(d2).Reconciled)
	suite.Nil(suite.line(c).FullReconcileID)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RejectsAlreadyReconciledLine() {
	a := suite.post(lineDef{balance: "100.00"})
	b := suite.post(lineDef{balance: "-100.00"})
	suite.reconcile(a, b)
	c := suite.post(lineDef{balance: "-20.00"})

	_, err := suite.service.Reconcile(suite.ctx, companyID, []string{c, a}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Contains(err.Error(), a)
	suite.assertResidual(c, "-20", "0")
	suite.Empty(suite.partialsOf(c))
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RejectsMixedCompanies() {
	a := suite.post(lineDef{balance: "100.00"})
	x := suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "-100.00"})

	_, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, x}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Contains(err.Error(), companyID)
	suite.Contains(err.Error(), otherCoID)
	suite.Empty(suite.partialsOf(a, x))
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ValidationFailures() {
	testCases := []struct {
		name     string
		lines    func() []string
		contains string
	}{
		{
			name: "different accounts",
			lines: func() []string {
				return []string{suite.post(lineDef{balance: "10"}), suite.post(lineDef{account: accSecond, balance: "-10"})}
			},
			contains: "same account",
		},
		{
			name: "account disallows reconciliation",
			lines: func() []string {
				return []string{suite.post(lineDef{account: accPlain, balance: "10"}), suite.post(lineDef{account: accPlain, balance: "-10"})}
			},
			contains: "does not allow reconciliation",
		},
		{
			name: "draft move",
			lines: func() []string {
				return []string{suite.post(lineDef{balance: "10"}), suite.post(lineDef{balance: "-10", draft: true})}
			},
			contains: "posted",
		},
		{
			name:     "no lines",
			lines:    func() []string { return nil },
			contains: "no lines",
		},
		{
			name: "other company's lines",
			lines: func() []string {
				return []string{suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "10"})}
			},
			contains: otherCoID,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.Reconcile(suite.ctx, companyID, tc.lines(), domain.ReconcileOptions{}, testUser)
			suite.Require().Error(err)
			suite.True(errors.Is(err, apperrors.ErrValidation), "got %v", err)
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_UnknownLine() {
	a := suite.post(lineDef{balance: "10"})

	_, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, "missing-line"}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.Contains(err.Error(), "missing-line")
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ExactMatchNeedsNoExchangeConfiguration() {
	a := suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "-100.00", currency: "EUR", amountCurrency: "-90.00"})

	result, err := suite.service.Reconcile(suite.ctx, otherCoID, []string{a, b}, domain.ReconcileOptions{}, testUser)

	suite.Require().NoError(err)
	suite.NotNil(result.FullReconcile)
	suite.Nil(result.ExchangeMove)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_DustWithoutExchangeConfigurationRollsBack() {
	a := suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{company: otherCoID, journal: journalCo2, account: accMatchCo2, counterpart: accOtherCo2, balance: "-99.50", currency: "EUR", amountCurrency: "-90.00"})

	_, err := suite.service.Reconcile(suite.ctx, otherCoID, []string{a, b}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrConfiguration))
	suite.Contains(err.Error(), otherCoID)
	suite.Empty(suite.partialsOf(a, b))
	suite.assertResidual(a, "100", "90")
	suite.assertResidual(b, "-99.50", "-90")
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_DifferentForeignCurrencies() {
	a := suite.post(lineDef{balance: "110.00", currency: "EUR", amountCurrency: "100.00"})
	b := suite.post(lineDef{day: 1, balance: "-110.00", currency: "GBP", amountCurrency: "-90.00"})

	result := suite.reconcile(a, b)

	suite.Require().Len(result.Partials, 2)
	match := result.Partials[0]
	suite.assertAmount("matched amount", "110", match.Amount)
	suite.assertAmount("EUR side", "100", match.DebitAmountCurrency)
	suite.assertAmount("GBP side", "88", match.CreditAmountCurrency)

	suite.Require().NotNil(result.ExchangeMove)
	suite.Require().Len(result.ExchangeMove.Lines, 2)
	suite.Equal(accGain, result.ExchangeMove.Lines[1].AccountID)
	suite.Require().NotNil(result.FullReconcile)

	suite.assertResidual(a, "0", "0")
	suite.assertResidual(b, "0", "0")
	suite.assertResidual(result.ExchangeMove.Lines[0].LineID, "0", "0")
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ExtendsExistingPartialChain() {
	a := suite.post(lineDef{day: 0, balance: "100.00"})
	b := suite.post(lineDef{day: 1, balance: "-60.00"})
	first := suite.reconcile(a, b)
	suite.Nil(first.FullReconcile)

	c := suite.post(lineDef{day: 2, balance: "-40.00"})
	second := suite.reconcile(a, c)

	suite.Require().Len(second.Partials, 1)
	suite.Equal(c, second.Partials[0].CreditLineID)
	suite.Require().NotNil(second.FullReconcile)
	suite.ElementsMatch([]string{a, b, c}, second.FullReconcile.LineIDs)
	suite.ElementsMatch([]string{first.Partials[0].PartialID, second.Partials[0].PartialID}, second.FullReconcile.PartialIDs)
	for _, id := range []string{a, b, c} {
		suite.True(suite.line(id).Reconciled, id)
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SkipExchangeDifference() {
	a := suite.post(lineDef{balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{balance: "-99.50", currency: "EUR", amountCurrency: "-90.00"})

	result, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, b}, domain.ReconcileOptions{SkipExchangeDifference: true}, testUser)

	suite.Require().NoError(err)
	suite.Nil(result.ExchangeMove)
	suite.Require().NotNil(result.FullReconcile)
	suite.assertResidual(a, "0.50", "0")
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RetriesSerializationConflicts() {
	a := suite.post(lineDef{balance: "100.00"})
	b := suite.post(lineDef{balance: "-100.00"})
	suite.store.FailNextCommits(2)

	result := suite.reconcile(a, b)

	suite.NotNil(result.FullReconcile)
	suite.Len(suite.partialsOf(a), 1)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_GivesUpAfterRetries() {
	a := suite.post(lineDef{balance: "100.00"})
	b := suite.post(lineDef{balance: "-100.00"})
	suite.store.FailNextCommits(10)

	_, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, b}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrConflict))
	suite.Empty(suite.partialsOf(a, b))
	suite.False(suite.line(a).Reconciled)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_PublishesEventsAfterCommit() {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.ReconciliationEvent) bool {
		return e.Type == domain.EventPartialReconcile && len(e.PartialIDs) == 1
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.ReconciliationEvent) bool {
		return e.Type == domain.EventFullReconcile && e.FullReconcileID != nil && len(e.LineIDs) == 2
	})).Return(errors.New("broker unavailable")).Once()
	suite.service = suite.newService(services.WithEventPublisher(publisher))

	a := suite.post(lineDef{balance: "100.00"})
	b := suite.post(lineDef{balance: "-100.00"})
	result := suite.reconcile(a, b)

	suite.NotNil(result.FullReconcile, "a publish failure does not fail the call")
	publisher.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_NoEventsWhenRolledBack() {
	publisher := new(MockEventPublisher)
	suite.service = suite.newService(services.WithEventPublisher(publisher))
	a := suite.post(lineDef{balance: "10"})

	_, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, "missing-line"}, domain.ReconcileOptions{}, testUser)

	suite.Require().Error(err)
	publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ReceivableTriggersCashBasis() {
	a := suite.post(lineDef{account: accReceivable, balance: "100.00"})
	b := suite.post(lineDef{account: accReceivable, day: 1, balance: "-100.00"})
	invoiceMoveID := suite.line(a).MoveID

	hook := new(MockCashBasisHook)
	hook.On("CreateCashBasisEntries", mock.Anything,
		mock.MatchedBy(func(c domain.Company) bool { return c.CompanyID == companyID }),
		mock.MatchedBy(func(p []domain.PartialReconcile) bool { return len(p) == 1 }),
	).Return(nil).Once()
	hook.On("CollectCashBasisAdjustments", mock.Anything, mock.MatchedBy(func(m domain.Move) bool { return m.MoveID == invoiceMoveID })).
		Return(&domain.CashBasisReport{
			IsFullyPaid: true,
			TransferAccountBalances: []domain.CashBasisAdjustment{
				{GroupingKey: "tax-15", AccountID: accTaxTmp, CounterpartAccountID: accTaxFinal, Balance: amount("5.00")},
				{GroupingKey: "tax-0", AccountID: accTaxTmp, CounterpartAccountID: accTaxFinal, Balance: amount("0")},
			},
		}, nil).Once()
	hook.On("CollectCashBasisAdjustments", mock.Anything, mock.MatchedBy(func(m domain.Move) bool { return m.MoveID != invoiceMoveID })).
		Return(&domain.CashBasisReport{}, nil).Once()
	suite.service = suite.newService(services.WithCashBasisHook(hook))

	result := suite.reconcile(a, b)

	suite.Require().NotNil(result.ExchangeMove)
	lines := result.ExchangeMove.Lines
	suite.Require().Len(lines, 2)
	suite.Equal(accTaxFinal, lines[0].AccountID)
	suite.assertAmount("tax final", "5", lines[0].Balance)
	suite.Equal(accTaxTmp, lines[1].AccountID)
	suite.assertAmount("tax transfer", "-5", lines[1].Balance)
	suite.Len(result.Partials, 1, "cash basis pairs are not bound to source lines")
	hook.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SkipCashBasis() {
	a := suite.post(lineDef{account: accReceivable, balance: "100.00"})
	b := suite.post(lineDef{account: accReceivable, balance: "-100.00"})

	hook := new(MockCashBasisHook)
	hook.On("CollectCashBasisAdjustments", mock.Anything, mock.Anything).Return(&domain.CashBasisReport{}, nil)
	suite.service = suite.newService(services.WithCashBasisHook(hook))

	result, err := suite.service.Reconcile(suite.ctx, companyID, []string{a, b}, domain.ReconcileOptions{SkipCashBasis: true}, testUser)

	suite.Require().NoError(err)
	suite.NotNil(result.FullReconcile)
	hook.AssertNotCalled(suite.T(), "CreateCashBasisEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestUnreconcile_RestoresResidualsAndReversesExchangeMove() {
	a := suite.post(lineDef{balance: "100.00", currency: "EUR", amountCurrency: "90.00"})
	b := suite.post(lineDef{day: 1, balance: "-99.50", currency: "EUR", amountCurrency: "-90.00"})
	reconciled := suite.reconcile(a, b)
	suite.Require().NotNil(reconciled.ExchangeMove)
	exchangeLine := reconciled.ExchangeMove.Lines[0].LineID

	result, err := suite.service.Unreconcile(suite.ctx, companyID, []string{a}, testUser)

	suite.Require().NoError(err)
	suite.ElementsMatch([]string{reconciled.Partials[0].PartialID, reconciled.Partials[1].PartialID}, result.RemovedPartialIDs)
	suite.Equal([]string{reconciled.FullReconcile.FullReconcileID}, result.RemovedFullIDs)
	suite.Require().Len(result.ReversalMoves, 1)
	reversal := result.ReversalMoves[0]
	suite.Require().NotNil(reversal.ReversedEntryID)
	suite.Equal(reconciled.ExchangeMove.MoveID, *reversal.ReversedEntryID)
	suite.Equal(reconciled.ExchangeMove.Date, reversal.Date)

	suite.assertResidual(a, "100", "90")
	suite.assertResidual(b, "-99.50", "-90")
	for _, id := range []string{a, b} {
		line := suite.line(id)
		suite.False(line.Reconciled)
		suite.Nil(line.FullReconcileID)
	}
	suite.Empty(suite.partialsOf(a, b))
	suite.True(suite.line(exchangeLine).Reconciled, "exchange line is settled by its reversal")
	suite.True(suite.line(reversal.Lines[0].LineID).Reconciled)

	again := suite.reconcile(a, b)
	suite.NotNil(again.FullReconcile)
	suite.Require().NotNil(again.ExchangeMove)
	suite.NotEqual(reconciled.ExchangeMove.MoveID, again.ExchangeMove.MoveID)
}

func (suite *ReconciliationServiceTestSuite) TestUnreconcile_PartialGroup() {
	d1 := suite.post(lineDef{day: 0, balance: "50.00"})
	d2 := suite.post(lineDef{day: 1, balance: "60.00"})
	c := suite.post(lineDef{day: 2, balance: "-100.00"})
	suite.reconcile(d1, d2, c)

	result, err := suite.service.Unreconcile(suite.ctx, companyID, []string{d2}, testUser)

	suite.Require().NoError(err)
	suite.Len(result.RemovedPartialIDs, 1)
	suite.Empty(result.RemovedFullIDs)
	suite.Empty(result.ReversalMoves)
	suite.assertResidual(d1, "0", "0")
	suite.assertResidual(d2, "60", "0")
	suite.assertResidual(c, "-50", "0")
	suite.False(suite.line(c).Reconciled)
}

func (suite *ReconciliationServiceTestSuite) TestUnreconcile_NothingToRemove() {
	a := suite.post(lineDef{balance: "10"})

	result, err := suite.service.Unreconcile(suite.ctx, companyID, []string{a}, testUser)

	suite.Require().NoError(err)
	suite.Empty(result.RemovedPartialIDs)
	suite.Empty(result.RemovedFullIDs)
}

func (suite *ReconciliationServiceTestSuite) TestUnreconcile_UnknownLine() {
	_, err := suite.service.Unreconcile(suite.ctx, companyID, []string{"missing-line"}, testUser)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

// TestReconciliationService runs the suite
func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

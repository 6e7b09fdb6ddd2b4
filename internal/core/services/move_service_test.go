package services_test

import (
	"testing"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/core/services"
	"github.com/SscSPs/money_reconcile/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MoveServiceTestSuite struct {
	ledgerSuite
}

func decPtr(s string) *decimal.Decimal {
	d := amount(s)
	return &d
}

func (suite *MoveServiceTestSuite) TestCreateMove_PostedSeedsResiduals() {
	id := suite.post(lineDef{balance: "100.00", currency: "EUR", amountCurrency: "90.00"})

	line := suite.line(id)
	suite.Equal("EUR", line.CurrencyCode)
	suite.Equal("USD", line.CompanyCurrencyCode)
	suite.Equal(day1, line.Date)
	suite.assertResidual(id, "100", "90")
	suite.False(line.Reconciled)

	move, err := suite.moves.GetMoveByID(suite.ctx, companyID, line.MoveID)
	suite.Require().NoError(err)
	suite.Equal(domain.MovePosted, move.State)
	suite.Require().Len(move.Lines, 2)
	// The counterpart account is not reconcilable, so it carries no residual.
	suite.assertAmount("counterpart residual", "0", move.Lines[1].AmountResidual)
}

func (suite *MoveServiceTestSuite) TestCreateMove_CompanyCurrencyIsNotForeign() {
	move, err := suite.moves.CreateMove(suite.ctx, companyID, dto.CreateMoveRequest{
		JournalID: journalMisc,
		Date:      day1,
		Post:      true,
		Lines: []dto.CreateLineRequest{
			{AccountID: accMatch, Debit: amount("10"), CurrencyCode: strPtr("USD"), AmountCurrency: amount("10")},
			{AccountID: accOther, Credit: amount("10")},
		},
	}, testUser)

	suite.Require().NoError(err)
	suite.Empty(move.Lines[0].CurrencyCode)
	suite.True(move.Lines[0].AmountCurrency.IsZero())
}

func (suite *MoveServiceTestSuite) TestCreateMove_Rejections() {
	testCases := []struct {
		name     string
		req      dto.CreateMoveRequest
		expected error
		contains string
	}{
		{
			name: "unbalanced",
			req: dto.CreateMoveRequest{JournalID: journalMisc, Date: day1, Post: true, Lines: []dto.CreateLineRequest{
				{AccountID: accMatch, Debit: amount("100")},
				{AccountID: accOther, Credit: amount("90")},
			}},
			expected: apperrors.ErrValidation,
			contains: "do not balance",
		},
		{
			name: "debit and credit on one line",
			req: dto.CreateMoveRequest{JournalID: journalMisc, Date: day1, Lines: []dto.CreateLineRequest{
				{AccountID: accMatch, Debit: amount("1"), Credit: amount("1")},
				{AccountID: accOther},
			}},
			expected: apperrors.ErrValidation,
			contains: "only one of debit and credit",
		},
		{
			name: "currency amount sign",
			req: dto.CreateMoveRequest{JournalID: journalMisc, Date: day1, Lines: []dto.CreateLineRequest{
				{AccountID: accMatch, Debit: amount("1"), CurrencyCode: strPtr("EUR"), AmountCurrency: amount("-1")},
				{AccountID: accOther, Credit: amount("1")},
			}},
			expected: apperrors.ErrValidation,
			contains: "opposite signs",
		},
		{
			name: "account of another company",
			req: dto.CreateMoveRequest{JournalID: journalMisc, Date: day1, Post: true, Lines: []dto.CreateLineRequest{
				{AccountID: accMatchCo2, Debit: amount("1")},
				{AccountID: accOther, Credit: amount("1")},
			}},
			expected: apperrors.ErrValidation,
			contains: accMatchCo2,
		},
		{
			name: "journal of another company",
			req: dto.CreateMoveRequest{JournalID: journalCo2, Date: day1, Lines: []dto.CreateLineRequest{
				{AccountID: accMatch, Debit: amount("1")},
				{AccountID: accOther, Credit: amount("1")},
			}},
			expected: apperrors.ErrValidation,
			contains: journalCo2,
		},
		{
			name: "unknown journal",
			req: dto.CreateMoveRequest{JournalID: "missing-journal", Date: day1, Lines: []dto.CreateLineRequest{
				{AccountID: accMatch, Debit: amount("1")},
				{AccountID: accOther, Credit: amount("1")},
			}},
			expected: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			move, err := suite.moves.CreateMove(suite.ctx, companyID, tc.req, testUser)
			suite.Nil(move)
			suite.Require().Error(err)
			suite.ErrorIs(err, tc.expected)
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

func (suite *MoveServiceTestSuite) TestCreateMove_InsideLockedPeriod() {
	company, err := suite.repos.CompanyRepo.FindCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	lock := day1.AddDate(0, 0, 5)
	company.FiscalLockDate = &lock
	suite.Require().NoError(suite.repos.CompanyRepo.UpdateCompany(suite.ctx, *company))

	_, err = suite.moves.CreateMove(suite.ctx, companyID, dto.CreateMoveRequest{
		JournalID: journalMisc,
		Date:      day1,
		Post:      true,
		Lines: []dto.CreateLineRequest{
			{AccountID: accMatch, Debit: amount("1")},
			{AccountID: accOther, Credit: amount("1")},
		},
	}, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "locked")
}

func (suite *MoveServiceTestSuite) TestPostMove_Draft() {
	id := suite.post(lineDef{balance: "25.00", draft: true})
	draft := suite.line(id)
	suite.assertResidual(id, "0", "0")

	move, err := suite.moves.PostMove(suite.ctx, companyID, draft.MoveID, testUser)

	suite.Require().NoError(err)
	suite.Equal(domain.MovePosted, move.State)
	suite.assertResidual(id, "25", "0")

	_, err = suite.moves.PostMove(suite.ctx, companyID, draft.MoveID, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MoveServiceTestSuite) TestGetMoveByID_OtherCompany() {
	id := suite.post(lineDef{balance: "5"})

	_, err := suite.moves.GetMoveByID(suite.ctx, otherCoID, suite.line(id).MoveID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MoveServiceTestSuite) TestListOpenLines_Pagination() {
	first := suite.post(lineDef{day: 0, balance: "10"})
	second := suite.post(lineDef{day: 1, balance: "20"})
	third := suite.post(lineDef{day: 2, balance: "-30"})
	suite.post(lineDef{day: 3, balance: "40", draft: true})
	suite.post(lineDef{day: 0, account: accSecond, balance: "50"})

	page, err := suite.moves.ListOpenLines(suite.ctx, companyID, accMatch, dto.ListOpenLinesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Lines, 2)
	suite.Equal(first, page.Lines[0].LineID)
	suite.Equal(second, page.Lines[1].LineID)
	suite.Require().NotNil(page.NextToken)

	next, err := suite.moves.ListOpenLines(suite.ctx, companyID, accMatch, dto.ListOpenLinesParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(next.Lines, 1)
	suite.Equal(third, next.Lines[0].LineID)
	suite.Nil(next.NextToken)
}

func (suite *MoveServiceTestSuite) TestListOpenLines_SkipsReconciledLines() {
	a := suite.post(lineDef{balance: "10"})
	b := suite.post(lineDef{balance: "-10"})
	c := suite.post(lineDef{balance: "7"})
	recon := services.NewReconciliationService(suite.store)
	_, err := recon.Reconcile(suite.ctx, companyID, []string{a, b}, domain.ReconcileOptions{}, testUser)
	suite.Require().NoError(err)

	page, err := suite.moves.ListOpenLines(suite.ctx, companyID, accMatch, dto.ListOpenLinesParams{})

	suite.Require().NoError(err)
	suite.Require().Len(page.Lines, 1)
	suite.Equal(c, page.Lines[0].LineID)
}

func (suite *MoveServiceTestSuite) TestListOpenLines_Errors() {
	bad := "not-a-token"
	_, err := suite.moves.ListOpenLines(suite.ctx, companyID, accMatch, dto.ListOpenLinesParams{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.moves.ListOpenLines(suite.ctx, companyID, accMatchCo2, dto.ListOpenLinesParams{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MoveServiceTestSuite) TestUpdateLine_GuardsReconciledLines() {
	a := suite.post(lineDef{balance: "100"})
	b := suite.post(lineDef{balance: "-60"})
	recon := services.NewReconciliationService(suite.store)
	_, err := recon.Reconcile(suite.ctx, companyID, []string{a, b}, domain.ReconcileOptions{}, testUser)
	suite.Require().NoError(err)

	_, err = suite.moves.UpdateLine(suite.ctx, companyID, a, dto.UpdateLineRequest{AccountID: strPtr(accSecond)}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "partially reconciled")

	_, err = suite.moves.UpdateLine(suite.ctx, companyID, b, dto.UpdateLineRequest{Credit: decPtr("50")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "is reconciled")

	renamed, err := suite.moves.UpdateLine(suite.ctx, companyID, b, dto.UpdateLineRequest{Name: strPtr("settled")}, testUser)
	suite.Require().NoError(err)
	suite.Equal("settled", renamed.Name)
	suite.True(suite.line(b).Reconciled)
}

func (suite *MoveServiceTestSuite) TestUpdateLine_AccountChangeReseedsResidual() {
	id := suite.post(lineDef{account: accPlain, balance: "42"})
	suite.assertResidual(id, "0", "0")

	line, err := suite.moves.UpdateLine(suite.ctx, companyID, id, dto.UpdateLineRequest{AccountID: strPtr(accMatch)}, testUser)

	suite.Require().NoError(err)
	suite.Equal(accMatch, line.AccountID)
	suite.assertResidual(id, "42", "0")
}

func (suite *MoveServiceTestSuite) TestUpdateLine_Amounts() {
	posted := suite.post(lineDef{balance: "10"})
	_, err := suite.moves.UpdateLine(suite.ctx, companyID, posted, dto.UpdateLineRequest{Debit: decPtr("11")}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	draft := suite.post(lineDef{balance: "10", draft: true})
	line, err := suite.moves.UpdateLine(suite.ctx, companyID, draft, dto.UpdateLineRequest{Debit: decPtr("11")}, testUser)
	suite.Require().NoError(err)
	suite.assertAmount("draft balance", "11", line.Balance)

	_, err = suite.moves.UpdateLine(suite.ctx, otherCoID, draft, dto.UpdateLineRequest{Name: strPtr("x")}, testUser)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestMoveService(t *testing.T) {
	suite.Run(t, new(MoveServiceTestSuite))
}

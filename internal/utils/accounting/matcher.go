package accounting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartialDraft is one matched pair produced by PrepareReconciliationPartials.
type PartialDraft struct {
	DebitLineID          string
	CreditLineID         string
	Amount               decimal.Decimal
	DebitAmountCurrency  decimal.Decimal
	CreditAmountCurrency decimal.Decimal
}

// SortForMatching orders lines by (maturity date or date, currency) ascending. The order decides
// which lines close first and therefore where rounding differences end up.
func SortForMatching(lines []domain.JournalLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		di, dj := lines[i].MatchingDate(), lines[j].MatchingDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return strings.Compare(lines[i].CurrencyCode, lines[j].CurrencyCode) < 0
	})
}

// matchCursor is the line currently being consumed on one side, with running residuals.
type matchCursor struct {
	line             *domain.JournalLine
	companyCurrency  domain.Currency
	currency         domain.Currency
	residual         decimal.Decimal
	residualCurrency decimal.Decimal
}

func newMatchCursor(line *domain.JournalLine, currencies CurrencyTable) (*matchCursor, error) {
	companyCur, err := currencies.Get(line.CompanyCurrencyCode)
	if err != nil {
		return nil, err
	}
	c := &matchCursor{
		line:            line,
		companyCurrency: companyCur,
		currency:        companyCur,
		residual:        line.AmountResidual,
	}
	if line.HasForeignCurrency() {
		if c.currency, err = currencies.Get(line.CurrencyCode); err != nil {
			return nil, err
		}
		c.residualCurrency = line.AmountResidualCurrency
	} else {
		c.residualCurrency = line.AmountResidual
	}
	return c, nil
}

// PrepareReconciliationPartials greedily pairs debit and credit lines in the given order.
// Lines must already be sorted with SortForMatching and belong to one account and company.
//
// When both current lines share a currency the foreign residuals drive the match; otherwise
// the company-currency residuals do and each side's foreign amount is converted independently.
func PrepareReconciliationPartials(ctx context.Context, lines []domain.JournalLine, currencies CurrencyTable, conv Converter) ([]PartialDraft, error) {
	debits := make([]int, 0, len(lines))
	credits := make([]int, 0, len(lines))
	for i, line := range lines {
		switch {
		case line.Balance.IsPositive():
			debits = append(debits, i)
		case line.Balance.IsNegative():
			credits = append(credits, i)
		case line.AmountCurrency.IsPositive():
			debits = append(debits, i)
		case line.AmountCurrency.IsNegative():
			credits = append(credits, i)
		}
	}

	var (
		drafts        []PartialDraft
		debit, credit *matchCursor
		nextD, nextC  int
		err           error
	)
	for {
		if debit == nil {
			if nextD >= len(debits) {
				break
			}
			if debit, err = newMatchCursor(&lines[debits[nextD]], currencies); err != nil {
				return nil, err
			}
			nextD++
		}
		if credit == nil {
			if nextC >= len(credits) {
				break
			}
			if credit, err = newMatchCursor(&lines[credits[nextC]], currencies); err != nil {
				return nil, err
			}
			nextC++
		}

		hasDebitResidual := !debit.companyCurrency.IsZero(debit.residual) && debit.residual.IsPositive()
		hasCreditResidual := !credit.companyCurrency.IsZero(credit.residual) && credit.residual.IsNegative()
		hasDebitResidualCurrency := !debit.currency.IsZero(debit.residualCurrency) && debit.residualCurrency.IsPositive()
		hasCreditResidualCurrency := !credit.currency.IsZero(credit.residualCurrency) && credit.residualCurrency.IsNegative()

		var amount, debitAmountCurrency, creditAmountCurrency decimal.Decimal
		if debit.currency.CurrencyCode == credit.currency.CurrencyCode {
			// A side is done when its currency residual is gone, unless it is only carrying
			// company-currency dust and the other side has nothing in currency to offer either.
			if !hasDebitResidualCurrency && (hasCreditResidualCurrency || !hasDebitResidual) {
				debit = nil
				continue
			}
			if !hasCreditResidualCurrency && (hasDebitResidualCurrency || !hasCreditResidual) {
				credit = nil
				continue
			}

			minCurrency := decimal.Min(debit.residualCurrency, credit.residualCurrency.Neg())
			debitAmountCurrency = minCurrency
			creditAmountCurrency = minCurrency
			amount = decimal.Min(positivePart(debit.residual), positivePart(credit.residual.Neg()))
		} else {
			if !hasDebitResidual {
				debit = nil
				continue
			}
			if !hasCreditResidual {
				credit = nil
				continue
			}

			amount = decimal.Min(debit.residual, credit.residual.Neg())

			// Each side's currency amount is converted with the other line's company and date.
			debitAmountCurrency, err = conv.Convert(ctx, amount, credit.companyCurrency, debit.currency, credit.line.CompanyID, credit.line.Date)
			if err != nil {
				return nil, fmt.Errorf("converting partial amount for line %s: %w", debit.line.LineID, err)
			}
			debitAmountCurrency = fixRemainingCent(debit.currency, debit.residualCurrency, debitAmountCurrency)

			creditAmountCurrency, err = conv.Convert(ctx, amount, debit.companyCurrency, credit.currency, debit.line.CompanyID, debit.line.Date)
			if err != nil {
				return nil, fmt.Errorf("converting partial amount for line %s: %w", credit.line.LineID, err)
			}
			creditAmountCurrency = fixRemainingCent(credit.currency, credit.residualCurrency.Neg(), creditAmountCurrency)
		}

		debit.residual = debit.residual.Sub(amount)
		debit.residualCurrency = debit.residualCurrency.Sub(debitAmountCurrency)
		credit.residual = credit.residual.Add(amount)
		credit.residualCurrency = credit.residualCurrency.Add(creditAmountCurrency)

		drafts = append(drafts, PartialDraft{
			DebitLineID:          debit.line.LineID,
			CreditLineID:         credit.line.LineID,
			Amount:               amount,
			DebitAmountCurrency:  debitAmountCurrency,
			CreditAmountCurrency: creditAmountCurrency,
		})
	}
	return drafts, nil
}

// fixRemainingCent snaps a converted amount onto the remaining residual when they differ by at
// most one rounding increment, so conversion noise does not leave a cent open.
func fixRemainingCent(currency domain.Currency, absResidual, partialAmount decimal.Decimal) decimal.Decimal {
	inc := currency.RoundingIncrement()
	if partialAmount.GreaterThanOrEqual(absResidual.Sub(inc)) && partialAmount.LessThanOrEqual(absResidual.Add(inc)) {
		return absResidual
	}
	return partialAmount
}

func positivePart(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.Zero
}

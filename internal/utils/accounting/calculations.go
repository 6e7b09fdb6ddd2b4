package accounting

import (
	"fmt"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateMoveBalance checks that a move has at least two lines and that its balances sum to zero
// in the company currency.
func ValidateMoveBalance(lines []domain.JournalLine, companyCurrency domain.Currency) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: a move needs at least two lines", apperrors.ErrValidation)
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Balance)
	}
	if !companyCurrency.IsZero(sum) {
		return fmt.Errorf("%w: move lines do not balance: sum is %s %s", apperrors.ErrValidation, sum.String(), companyCurrency.CurrencyCode)
	}
	return nil
}

// InitialResidual seeds the residual fields of a freshly posted line. Lines on accounts that do not
// take part in reconciliation carry no residual.
func InitialResidual(line domain.JournalLine, tracksResidual bool) domain.JournalLine {
	if !tracksResidual {
		line.AmountResidual = decimal.Zero
		line.AmountResidualCurrency = decimal.Zero
		line.Reconciled = false
		return line
	}
	line.AmountResidual = line.Balance
	if line.HasForeignCurrency() {
		line.AmountResidualCurrency = line.AmountCurrency
	} else {
		line.AmountResidualCurrency = decimal.Zero
	}
	return line
}

// ComputeResidual recomputes the residual fields of line from the partials touching it:
// residual = balance - sum(matched as debit) + sum(matched as credit), in both currencies.
func ComputeResidual(line domain.JournalLine, partials []domain.PartialReconcile, currencies CurrencyTable) (domain.JournalLine, error) {
	companyCur, err := currencies.Get(line.CompanyCurrencyCode)
	if err != nil {
		return line, err
	}

	reconciled := decimal.Zero
	reconciledCurrency := decimal.Zero
	for _, p := range partials {
		if p.DebitLineID == line.LineID {
			reconciled = reconciled.Add(p.Amount)
			reconciledCurrency = reconciledCurrency.Add(p.DebitAmountCurrency)
		}
		if p.CreditLineID == line.LineID {
			reconciled = reconciled.Sub(p.Amount)
			reconciledCurrency = reconciledCurrency.Sub(p.CreditAmountCurrency)
		}
	}

	line.AmountResidual = line.Balance.Sub(reconciled)
	line.Reconciled = companyCur.IsZero(line.AmountResidual)
	if line.HasForeignCurrency() {
		cur, err := currencies.Get(line.CurrencyCode)
		if err != nil {
			return line, err
		}
		line.AmountResidualCurrency = line.AmountCurrency.Sub(reconciledCurrency)
		line.Reconciled = line.Reconciled && cur.IsZero(line.AmountResidualCurrency)
	} else {
		line.AmountResidualCurrency = decimal.Zero
	}
	return line, nil
}

// IsResidualZero reports whether the line has nothing left to settle in either currency.
func IsResidualZero(line domain.JournalLine, currencies CurrencyTable) (bool, error) {
	companyCur, err := currencies.Get(line.CompanyCurrencyCode)
	if err != nil {
		return false, err
	}
	if !companyCur.IsZero(line.AmountResidual) {
		return false, nil
	}
	if !line.HasForeignCurrency() {
		return true, nil
	}
	cur, err := currencies.Get(line.CurrencyCode)
	if err != nil {
		return false, err
	}
	return cur.IsZero(line.AmountResidualCurrency), nil
}

// IsFullyReconciled decides whether a settlement group is closed. When every line shares one
// currency the currency residuals must be zero; otherwise the company-currency residuals must be.
func IsFullyReconciled(lines []domain.JournalLine, currencies CurrencyTable) (bool, error) {
	if len(lines) == 0 {
		return false, nil
	}

	code := lines[0].EffectiveCurrencyCode()
	shared := true
	for _, line := range lines[1:] {
		if line.EffectiveCurrencyCode() != code {
			shared = false
			break
		}
	}

	for _, line := range lines {
		if shared {
			cur, err := currencies.Get(code)
			if err != nil {
				return false, err
			}
			if !cur.IsZero(line.EffectiveResidualCurrency()) {
				return false, nil
			}
			continue
		}
		companyCur, err := currencies.Get(line.CompanyCurrencyCode)
		if err != nil {
			return false, err
		}
		if !companyCur.IsZero(line.AmountResidual) {
			return false, nil
		}
	}
	return true, nil
}

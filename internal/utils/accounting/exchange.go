package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	ExchangeDifferenceLabel  = "Currency exchange rate difference"
	CashBasisDifferenceLabel = "Currency exchange rate difference (cash basis)"
)

// ExchangeBinding ties a source line to the exchange line at Sequence that settles it.
type ExchangeBinding struct {
	SourceLineID string
	Sequence     int
}

// ExchangePlan holds the lines of a pending exchange difference move. Line IDs, move ID
// and dates are assigned when the move is created.
type ExchangePlan struct {
	Lines    []domain.JournalLine
	Bindings []ExchangeBinding
}

// IsEmpty reports whether there is nothing to book.
func (p *ExchangePlan) IsEmpty() bool {
	return p == nil || len(p.Lines) == 0
}

// LineAt returns the planned line at sequence position seq.
func (p *ExchangePlan) LineAt(seq int) (domain.JournalLine, bool) {
	if p == nil || seq < 0 || seq >= len(p.Lines) {
		return domain.JournalLine{}, false
	}
	return p.Lines[seq], true
}

// PlanExchangeDifference emits, for every line still carrying a residual, a line on its own
// account offsetting that residual and a mirror line on the company's gain or loss account.
// The gain and loss accounts are only required for lines that actually need compensating.
func PlanExchangeDifference(company domain.Company, lines []domain.JournalLine, currencies CurrencyTable) (*ExchangePlan, error) {
	plan := &ExchangePlan{}
	for _, line := range lines {
		companyCur, err := currencies.Get(line.CompanyCurrencyCode)
		if err != nil {
			return nil, err
		}

		var sign decimal.Decimal
		switch {
		case !companyCur.IsZero(line.AmountResidual):
			sign = line.AmountResidual
		case line.HasForeignCurrency():
			cur, err := currencies.Get(line.CurrencyCode)
			if err != nil {
				return nil, err
			}
			if cur.IsZero(line.AmountResidualCurrency) {
				continue
			}
			sign = line.AmountResidualCurrency
		default:
			continue
		}

		counterpart, err := exchangeAccount(company, sign.IsPositive())
		if err != nil {
			return nil, fmt.Errorf("compensating line %s: %w", line.LineID, err)
		}

		seq := len(plan.Lines)
		plan.Lines = append(plan.Lines,
			domain.JournalLine{
				Name:                ExchangeDifferenceLabel,
				Sequence:            seq,
				CompanyID:           line.CompanyID,
				AccountID:           line.AccountID,
				PartnerID:           line.PartnerID,
				CurrencyCode:        line.CurrencyCode,
				CompanyCurrencyCode: line.CompanyCurrencyCode,
				Balance:             line.AmountResidual.Neg(),
				// Usually zero; any currency dust left on the line is absorbed here too.
				AmountCurrency: line.AmountResidualCurrency.Neg(),
			},
			domain.JournalLine{
				Name:                ExchangeDifferenceLabel,
				Sequence:            seq + 1,
				CompanyID:           line.CompanyID,
				AccountID:           counterpart,
				PartnerID:           line.PartnerID,
				CurrencyCode:        line.CurrencyCode,
				CompanyCurrencyCode: line.CompanyCurrencyCode,
				Balance:             line.AmountResidual,
				AmountCurrency:      line.AmountResidualCurrency,
			},
		)
		plan.Bindings = append(plan.Bindings, ExchangeBinding{SourceLineID: line.LineID, Sequence: seq})
	}
	return plan, nil
}

// exchangeAccount picks the loss account for positive residuals and the gain account otherwise.
func exchangeAccount(company domain.Company, loss bool) (string, error) {
	if loss {
		if company.ExpenseExchangeAccountID == nil || *company.ExpenseExchangeAccountID == "" {
			return "", fmt.Errorf("%w: company %s has no loss exchange account configured", apperrors.ErrConfiguration, company.CompanyID)
		}
		return *company.ExpenseExchangeAccountID, nil
	}
	if company.IncomeExchangeAccountID == nil || *company.IncomeExchangeAccountID == "" {
		return "", fmt.Errorf("%w: company %s has no gain exchange account configured", apperrors.ErrConfiguration, company.CompanyID)
	}
	return *company.IncomeExchangeAccountID, nil
}

// AddCashBasisPairs appends one pair per non-zero adjustment so the transfer or base account
// nets to zero. Cash-basis pairs are not bound to any source line.
func AddCashBasisPairs(plan *ExchangePlan, companyID string, companyCur domain.Currency, adjustments []domain.CashBasisAdjustment) {
	for _, adj := range adjustments {
		balance := companyCur.Round(adj.Balance)
		if companyCur.IsZero(balance) {
			continue
		}
		currency := adj.CurrencyCode
		if currency == companyCur.CurrencyCode {
			currency = ""
		}
		seq := len(plan.Lines)
		plan.Lines = append(plan.Lines,
			domain.JournalLine{
				Name:                CashBasisDifferenceLabel,
				Sequence:            seq,
				CompanyID:           companyID,
				AccountID:           adj.CounterpartAccountID,
				PartnerID:           adj.PartnerID,
				CurrencyCode:        currency,
				CompanyCurrencyCode: companyCur.CurrencyCode,
				Balance:             balance,
				AmountCurrency:      decimal.Zero,
			},
			domain.JournalLine{
				Name:                CashBasisDifferenceLabel,
				Sequence:            seq + 1,
				CompanyID:           companyID,
				AccountID:           adj.AccountID,
				PartnerID:           adj.PartnerID,
				CurrencyCode:        currency,
				CompanyCurrencyCode: companyCur.CurrencyCode,
				Balance:             balance.Neg(),
				AmountCurrency:      decimal.Zero,
			},
		)
	}
}

// ExchangeMoveDate is the latest source line date, pushed past the company lock date if needed.
func ExchangeMoveDate(company domain.Company, lines []domain.JournalLine) time.Time {
	var date time.Time
	for _, line := range lines {
		if line.Date.After(date) {
			date = line.Date
		}
	}
	return company.AccountingDate(date)
}

// ExchangePartial builds the partial settling source against its posted exchange line.
// The amount is the source's company residual; currency amounts are whatever brings each
// side's own currency residual to zero.
func ExchangePartial(source, exchangeLine domain.JournalLine, companyCur domain.Currency) PartialDraft {
	field := func(l domain.JournalLine) decimal.Decimal { return l.AmountResidual }
	if companyCur.IsZero(source.AmountResidual) {
		field = func(l domain.JournalLine) decimal.Decimal { return l.AmountResidualCurrency }
	}

	debitLine, creditLine := source, exchangeLine
	if field(exchangeLine).IsPositive() {
		debitLine, creditLine = exchangeLine, source
	}
	return PartialDraft{
		DebitLineID:          debitLine.LineID,
		CreditLineID:         creditLine.LineID,
		Amount:               source.AmountResidual.Abs(),
		DebitAmountCurrency:  debitLine.AmountResidualCurrency,
		CreditAmountCurrency: creditLine.AmountResidualCurrency.Neg(),
	}
}

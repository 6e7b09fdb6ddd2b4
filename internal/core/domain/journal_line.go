package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one debit or credit row of a move. Balance is in the company currency
// (debit minus credit); AmountCurrency is in CurrencyCode when the line carries a foreign currency.
type JournalLine struct {
	LineID              string     `json:"lineID"`
	MoveID              string     `json:"moveID"`
	CompanyID           string     `json:"companyID"`
	AccountID           string     `json:"accountID"`
	PartnerID           *string    `json:"partnerID,omitempty"`
	Name                string     `json:"name"`
	Sequence            int        `json:"sequence"`
	Date                time.Time  `json:"date"`
	DateMaturity        *time.Time `json:"dateMaturity,omitempty"`
	CurrencyCode        string     `json:"currencyCode,omitempty"` // empty: company currency only
	CompanyCurrencyCode string     `json:"companyCurrencyCode"`

	Balance        decimal.Decimal `json:"balance"`
	AmountCurrency decimal.Decimal `json:"amountCurrency"`

	AmountResidual         decimal.Decimal `json:"amountResidual"`
	AmountResidualCurrency decimal.Decimal `json:"amountResidualCurrency"`
	Reconciled             bool            `json:"reconciled"`
	FullReconcileID        *string         `json:"fullReconcileID,omitempty"`
	AuditFields
}

// HasForeignCurrency reports whether the line tracks an amount in a currency other than the company's.
func (l JournalLine) HasForeignCurrency() bool {
	return l.CurrencyCode != "" && l.CurrencyCode != l.CompanyCurrencyCode
}

// EffectiveCurrencyCode is the foreign currency, or the company currency when there is none.
func (l JournalLine) EffectiveCurrencyCode() string {
	if l.HasForeignCurrency() {
		return l.CurrencyCode
	}
	return l.CompanyCurrencyCode
}

// EffectiveAmountCurrency is AmountCurrency, or Balance for company-currency lines.
func (l JournalLine) EffectiveAmountCurrency() decimal.Decimal {
	if l.HasForeignCurrency() {
		return l.AmountCurrency
	}
	return l.Balance
}

// EffectiveResidualCurrency is AmountResidualCurrency, or AmountResidual for company-currency lines.
func (l JournalLine) EffectiveResidualCurrency() decimal.Decimal {
	if l.HasForeignCurrency() {
		return l.AmountResidualCurrency
	}
	return l.AmountResidual
}

// MatchingDate is the maturity date when set, otherwise the accounting date.
func (l JournalLine) MatchingDate() time.Time {
	if l.DateMaturity != nil {
		return *l.DateMaturity
	}
	return l.Date
}

// Debit returns the positive part of Balance.
func (l JournalLine) Debit() decimal.Decimal {
	if l.Balance.IsPositive() {
		return l.Balance
	}
	return decimal.Zero
}

// Credit returns the negated negative part of Balance.
func (l JournalLine) Credit() decimal.Decimal {
	if l.Balance.IsNegative() {
		return l.Balance.Neg()
	}
	return decimal.Zero
}

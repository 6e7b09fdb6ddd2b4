package domain

import "github.com/shopspring/decimal"

// CashBasisAdjustment is the outstanding balance of one cash-basis transfer or base account
// for a move, already net of the cash-basis entries generated for it.
type CashBasisAdjustment struct {
	GroupingKey string `json:"groupingKey"`
	// AccountID holds the balance to clear (transfer account for tax lines, base account for base lines).
	AccountID string `json:"accountID"`
	// CounterpartAccountID receives the balance: the final tax account, or AccountID for base lines.
	CounterpartAccountID string            `json:"counterpartAccountID"`
	Balance              decimal.Decimal   `json:"balance"`
	PartnerID            *string           `json:"partnerID,omitempty"`
	CurrencyCode         string            `json:"currencyCode,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// CashBasisReport is what the cash-basis collaborator knows about a move.
type CashBasisReport struct {
	IsFullyPaid             bool                  `json:"isFullyPaid"`
	TransferAccountBalances []CashBasisAdjustment `json:"transferAccountBalances"`
}

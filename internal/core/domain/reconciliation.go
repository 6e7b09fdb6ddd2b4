package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartialReconcile records that Amount (company currency) was matched between a debit line
// and a credit line. The currency amounts are expressed in each line's own currency.
type PartialReconcile struct {
	PartialID            string          `json:"partialID"`
	CompanyID            string          `json:"companyID"`
	DebitLineID          string          `json:"debitLineID"`
	CreditLineID         string          `json:"creditLineID"`
	Amount               decimal.Decimal `json:"amount"`
	DebitAmountCurrency  decimal.Decimal `json:"debitAmountCurrency"`
	CreditAmountCurrency decimal.Decimal `json:"creditAmountCurrency"`
	FullReconcileID      *string         `json:"fullReconcileID,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}

// Touches reports whether the partial references lineID on either side.
func (p PartialReconcile) Touches(lineID string) bool {
	return p.DebitLineID == lineID || p.CreditLineID == lineID
}

// FullReconcile marks a closed group of lines whose combined residual is zero.
type FullReconcile struct {
	FullReconcileID string    `json:"fullReconcileID"`
	CompanyID       string    `json:"companyID"`
	PartialIDs      []string  `json:"partialIDs"`
	LineIDs         []string  `json:"lineIDs"`
	ExchangeMoveID  *string   `json:"exchangeMoveID,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// ReconcileOptions tunes a reconcile call.
type ReconcileOptions struct {
	// SkipCashBasis suppresses cash-basis tax entries, e.g. when cancelling a move by reversal.
	SkipCashBasis bool
	// SkipExchangeDifference closes the group without booking an exchange difference entry.
	SkipExchangeDifference bool
}

// ReconcileResult reports what a reconcile call created.
type ReconcileResult struct {
	Partials      []PartialReconcile `json:"partials"`
	FullReconcile *FullReconcile     `json:"fullReconcile,omitempty"`
	ExchangeMove  *Move              `json:"exchangeMove,omitempty"`
}

// UnreconcileResult reports what an unreconcile call removed or booked.
type UnreconcileResult struct {
	RemovedPartialIDs []string `json:"removedPartialIDs"`
	RemovedFullIDs    []string `json:"removedFullIDs"`
	ReversalMoves     []Move   `json:"reversalMoves,omitempty"`
}

// ReconciliationEventType names the events published after commit.
type ReconciliationEventType string

const (
	EventPartialReconcile ReconciliationEventType = "reconciliation.partial"
	EventFullReconcile    ReconciliationEventType = "reconciliation.full"
	EventUnreconcile      ReconciliationEventType = "reconciliation.removed"
)

// ReconciliationEvent is the payload published to subscribers.
type ReconciliationEvent struct {
	Type            ReconciliationEventType `json:"type"`
	CompanyID       string                  `json:"companyID"`
	LineIDs         []string                `json:"lineIDs"`
	PartialIDs      []string                `json:"partialIDs"`
	FullReconcileID *string                 `json:"fullReconcileID,omitempty"`
	ExchangeMoveID  *string                 `json:"exchangeMoveID,omitempty"`
	OccurredAt      time.Time               `json:"occurredAt"`
}

package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileRequest asks to settle a set of lines against each other.
type ReconcileRequest struct {
	LineIDs                []string `json:"lineIDs" binding:"required,min=1,dive,uuid"`
	SkipCashBasis          bool     `json:"skipCashBasis"`
	SkipExchangeDifference bool     `json:"skipExchangeDifference"`
}

// Options converts the request flags to domain options.
func (r ReconcileRequest) Options() domain.ReconcileOptions {
	return domain.ReconcileOptions{
		SkipCashBasis:          r.SkipCashBasis,
		SkipExchangeDifference: r.SkipExchangeDifference,
	}
}

// UnreconcileRequest asks to remove every reconciliation touching the lines.
type UnreconcileRequest struct {
	LineIDs []string `json:"lineIDs" binding:"required,min=1,dive,uuid"`
}

// PartialReconcileResponse defines the data returned for a partial reconciliation.
type PartialReconcileResponse struct {
	PartialID            string          `json:"partialID"`
	DebitLineID          string          `json:"debitLineID"`
	CreditLineID         string          `json:"creditLineID"`
	Amount               decimal.Decimal `json:"amount"`
	DebitAmountCurrency  decimal.Decimal `json:"debitAmountCurrency"`
	CreditAmountCurrency decimal.Decimal `json:"creditAmountCurrency"`
	FullReconcileID      *string         `json:"fullReconcileID,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// FullReconcileResponse defines the data returned for a full reconciliation.
type FullReconcileResponse struct {
	FullReconcileID string   `json:"fullReconcileID"`
	PartialIDs      []string `json:"partialIDs"`
	LineIDs         []string `json:"lineIDs"`
	ExchangeMoveID  *string  `json:"exchangeMoveID"`
}

// ReconcileResponse reports what a reconcile call created.
type ReconcileResponse struct {
	Partials      []PartialReconcileResponse `json:"partials"`
	FullReconcile *FullReconcileResponse     `json:"fullReconcile,omitempty"`
	ExchangeMove  *MoveResponse              `json:"exchangeMove,omitempty"`
}

// UnreconcileResponse reports what an unreconcile call removed.
type UnreconcileResponse struct {
	RemovedPartialIDs []string       `json:"removedPartialIDs"`
	RemovedFullIDs    []string       `json:"removedFullReconcileIDs"`
	ReversalMoves     []MoveResponse `json:"reversalMoves"`
}

// ToReconcileResponse converts a domain.ReconcileResult to ReconcileResponse DTO.
func ToReconcileResponse(res *domain.ReconcileResult) ReconcileResponse {
	out := ReconcileResponse{Partials: make([]PartialReconcileResponse, len(res.Partials))}
	for i, p := range res.Partials {
		out.Partials[i] = PartialReconcileResponse{
			PartialID:            p.PartialID,
			DebitLineID:          p.DebitLineID,
			CreditLineID:         p.CreditLineID,
			Amount:               p.Amount,
			DebitAmountCurrency:  p.DebitAmountCurrency,
			CreditAmountCurrency: p.CreditAmountCurrency,
			FullReconcileID:      p.FullReconcileID,
			CreatedAt:            p.CreatedAt,
		}
	}
	if res.FullReconcile != nil {
		out.FullReconcile = &FullReconcileResponse{
			FullReconcileID: res.FullReconcile.FullReconcileID,
			PartialIDs:      res.FullReconcile.PartialIDs,
			LineIDs:         res.FullReconcile.LineIDs,
			ExchangeMoveID:  res.FullReconcile.ExchangeMoveID,
		}
	}
	if res.ExchangeMove != nil {
		move := ToMoveResponse(res.ExchangeMove)
		out.ExchangeMove = &move
	}
	return out
}

// ToUnreconcileResponse converts a domain.UnreconcileResult to UnreconcileResponse DTO.
func ToUnreconcileResponse(res *domain.UnreconcileResult) UnreconcileResponse {
	out := UnreconcileResponse{
		RemovedPartialIDs: res.RemovedPartialIDs,
		RemovedFullIDs:    res.RemovedFullIDs,
		ReversalMoves:     make([]MoveResponse, len(res.ReversalMoves)),
	}
	for i := range res.ReversalMoves {
		out.ReversalMoves[i] = ToMoveResponse(&res.ReversalMoves[i])
	}
	return out
}

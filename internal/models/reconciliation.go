package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartialReconcile is a row of partial_reconciles.
type PartialReconcile struct {
	PartialID            string          `db:"partial_id"`
	CompanyID            string          `db:"company_id"`
	DebitLineID          string          `db:"debit_line_id"`
	CreditLineID         string          `db:"credit_line_id"`
	Amount               decimal.Decimal `db:"amount"`
	DebitAmountCurrency  decimal.Decimal `db:"debit_amount_currency"`
	CreditAmountCurrency decimal.Decimal `db:"credit_amount_currency"`
	FullReconcileID      *string         `db:"full_reconcile_id"`
	CreatedAt            time.Time       `db:"created_at"`
	CreatedBy            string          `db:"created_by"`
}

// FullReconcile is a row of full_reconciles. Member lines and partials point to it.
type FullReconcile struct {
	FullReconcileID string    `db:"full_reconcile_id"`
	CompanyID       string    `db:"company_id"`
	ExchangeMoveID  *string   `db:"exchange_move_id"`
	CreatedAt       time.Time `db:"created_at"`
	CreatedBy       string    `db:"created_by"`
}

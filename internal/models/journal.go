package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a book moves are posted in.
type Journal struct {
	JournalID string `db:"journal_id"`
	CompanyID string `db:"company_id"`
	Code      string `db:"code"`
	Name      string `db:"name"`
	Type      string `db:"journal_type"`
	AuditFields
}

// Move is the header of a balanced accounting entry.
type Move struct {
	MoveID          string    `db:"move_id"`
	CompanyID       string    `db:"company_id"`
	JournalID       string    `db:"journal_id"`
	Date            time.Time `db:"move_date"`
	Ref             string    `db:"ref"`
	State           string    `db:"state"`
	ReversedEntryID *string   `db:"reversed_entry_id"`
	AuditFields
}

// JournalLine is one line of a move. currency_code is NULL for company currency lines.
type JournalLine struct {
	LineID                 string          `db:"line_id"`
	MoveID                 string          `db:"move_id"`
	CompanyID              string          `db:"company_id"`
	AccountID              string          `db:"account_id"`
	PartnerID              *string         `db:"partner_id"`
	Name                   string          `db:"name"`
	Sequence               int             `db:"sequence"`
	Date                   time.Time       `db:"line_date"`
	DateMaturity           *time.Time      `db:"date_maturity"`
	CurrencyCode           *string         `db:"currency_code"`
	CompanyCurrencyCode    string          `db:"company_currency_code"`
	Balance                decimal.Decimal `db:"balance"`
	AmountCurrency         decimal.Decimal `db:"amount_currency"`
	AmountResidual         decimal.Decimal `db:"amount_residual"`
	AmountResidualCurrency decimal.Decimal `db:"amount_residual_currency"`
	Reconciled             bool            `db:"reconciled"`
	FullReconcileID        *string         `db:"full_reconcile_id"`
	AuditFields
}

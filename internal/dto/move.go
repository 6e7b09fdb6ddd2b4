package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest describes one line of a new move. Exactly one of Debit and Credit may be
// non-zero; AmountCurrency is signed and only meaningful with a foreign CurrencyCode.
type CreateLineRequest struct {
	AccountID      string          `json:"accountID" binding:"required,uuid"`
	PartnerID      *string         `json:"partnerID"`
	Name           string          `json:"name"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	CurrencyCode   *string         `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	AmountCurrency decimal.Decimal `json:"amountCurrency"`
	DateMaturity   *time.Time      `json:"dateMaturity"`
}

// CreateMoveRequest defines the data needed to create a move. Post=true posts it immediately.
type CreateMoveRequest struct {
	JournalID string              `json:"journalID" binding:"required,uuid"`
	Date      time.Time           `json:"date" binding:"required"`
	Ref       string              `json:"ref" binding:"max=255"`
	Post      bool                `json:"post"`
	Lines     []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateLineRequest defines the editable fields of a line. Amount and account changes are
// rejected on lines that take part in a reconciliation.
type UpdateLineRequest struct {
	Name         *string          `json:"name"`
	PartnerID    *string          `json:"partnerID"`
	DateMaturity *time.Time       `json:"dateMaturity"`
	AccountID    *string          `json:"accountID" binding:"omitempty,uuid"`
	Debit        *decimal.Decimal `json:"debit"`
	Credit       *decimal.Decimal `json:"credit"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID                 string          `json:"lineID"`
	MoveID                 string          `json:"moveID"`
	AccountID              string          `json:"accountID"`
	PartnerID              *string         `json:"partnerID,omitempty"`
	Name                   string          `json:"name"`
	Sequence               int             `json:"sequence"`
	Date                   time.Time       `json:"date"`
	DateMaturity           *time.Time      `json:"dateMaturity,omitempty"`
	CurrencyCode           string          `json:"currencyCode"`
	Debit                  decimal.Decimal `json:"debit"`
	Credit                 decimal.Decimal `json:"credit"`
	Balance                decimal.Decimal `json:"balance"`
	AmountCurrency         decimal.Decimal `json:"amountCurrency"`
	AmountResidual         decimal.Decimal `json:"amountResidual"`
	AmountResidualCurrency decimal.Decimal `json:"amountResidualCurrency"`
	Reconciled             bool            `json:"reconciled"`
	FullReconcileID        *string         `json:"fullReconcileID,omitempty"`
}

// MoveResponse defines the data returned for a move.
type MoveResponse struct {
	MoveID          string           `json:"moveID"`
	CompanyID       string           `json:"companyID"`
	JournalID       string           `json:"journalID"`
	Date            time.Time        `json:"date"`
	Ref             string           `json:"ref"`
	State           domain.MoveState `json:"state"`
	ReversedEntryID *string          `json:"reversedEntryID,omitempty"`
	Lines           []LineResponse   `json:"lines"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:                 l.LineID,
		MoveID:                 l.MoveID,
		AccountID:              l.AccountID,
		PartnerID:              l.PartnerID,
		Name:                   l.Name,
		Sequence:               l.Sequence,
		Date:                   l.Date,
		DateMaturity:           l.DateMaturity,
		CurrencyCode:           l.EffectiveCurrencyCode(),
		Debit:                  l.Debit(),
		Credit:                 l.Credit(),
		Balance:                l.Balance,
		AmountCurrency:         l.EffectiveAmountCurrency(),
		AmountResidual:         l.AmountResidual,
		AmountResidualCurrency: l.EffectiveResidualCurrency(),
		Reconciled:             l.Reconciled,
		FullReconcileID:        l.FullReconcileID,
	}
}

// ToLineResponses converts a slice of domain.JournalLine to []LineResponse.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i, l := range lines {
		responses[i] = ToLineResponse(&l)
	}
	return responses
}

// ToMoveResponse converts a domain.Move to MoveResponse DTO.
func ToMoveResponse(m *domain.Move) MoveResponse {
	return MoveResponse{
		MoveID:          m.MoveID,
		CompanyID:       m.CompanyID,
		JournalID:       m.JournalID,
		Date:            m.Date,
		Ref:             m.Ref,
		State:           m.State,
		ReversedEntryID: m.ReversedEntryID,
		Lines:           ToLineResponses(m.Lines),
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// ListOpenLinesParams defines query parameters for listing open lines of an account.
type ListOpenLinesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListOpenLinesResponse wraps a page of open lines.
type ListOpenLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

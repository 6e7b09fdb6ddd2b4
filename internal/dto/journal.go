package dto

import (
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// CreateJournalRequest defines the data needed to create a journal (book).
type CreateJournalRequest struct {
	Code string             `json:"code" binding:"required,max=16"`
	Name string             `json:"name" binding:"required"`
	Type domain.JournalType `json:"type" binding:"required,oneof=GENERAL SALE PURCHASE BANK CASH"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID string             `json:"journalID"`
	CompanyID string             `json:"companyID"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      domain.JournalType `json:"type"`
	CreatedAt time.Time          `json:"createdAt"`
	CreatedBy string             `json:"createdBy"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID: j.JournalID,
		CompanyID: j.CompanyID,
		Code:      j.Code,
		Name:      j.Name,
		Type:      j.Type,
		CreatedAt: j.CreatedAt,
		CreatedBy: j.CreatedBy,
	}
}

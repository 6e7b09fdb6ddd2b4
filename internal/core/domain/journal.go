package domain

import "time"

// JournalType classifies a journal (book).
type JournalType string

const (
	JournalGeneral  JournalType = "GENERAL"
	JournalSale     JournalType = "SALE"
	JournalPurchase JournalType = "PURCHASE"
	JournalBank     JournalType = "BANK"
	JournalCash     JournalType = "CASH"
)

// Journal is the book a move is recorded in, e.g. the currency exchange journal.
type Journal struct {
	JournalID string      `json:"journalID"`
	CompanyID string      `json:"companyID"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      JournalType `json:"type"`
	AuditFields
}

// MoveState indicates the state of a journal entry.
type MoveState string

const (
	MoveDraft     MoveState = "DRAFT"
	MovePosted    MoveState = "POSTED"
	MoveCancelled MoveState = "CANCELLED"
)

// Move is a balanced journal entry composed of lines.
type Move struct {
	MoveID          string        `json:"moveID"`
	CompanyID       string        `json:"companyID"`
	JournalID       string        `json:"journalID"`
	Date            time.Time     `json:"date"`
	Ref             string        `json:"ref"`
	State           MoveState     `json:"state"`
	ReversedEntryID *string       `json:"reversedEntryID,omitempty"`
	Lines           []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsPosted reports whether the move is posted.
func (m Move) IsPosted() bool {
	return m.State == MovePosted
}

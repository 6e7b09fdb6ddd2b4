package services

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	"github.com/SscSPs/money_reconcile/internal/dto"
)

// JournalSvcFacade manages journals (books).
type JournalSvcFacade interface {
	// CreateJournal persists a new journal.
	CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, userID string) (*domain.Journal, error)

	// GetJournalByID retrieves a journal of a company.
	GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, error)
}

// MoveReaderSvc defines read operations for moves and lines
type MoveReaderSvc interface {
	// GetMoveByID retrieves a move with its lines.
	GetMoveByID(ctx context.Context, companyID string, moveID string) (*domain.Move, error)

	// ListOpenLines retrieves unreconciled lines of an account, oldest first.
	ListOpenLines(ctx context.Context, companyID string, accountID string, params dto.ListOpenLinesParams) (*dto.ListOpenLinesResponse, error)
}

// MoveWriterSvc defines write operations for moves and lines
type MoveWriterSvc interface {
	// CreateMove persists a new move, posting it when requested.
	CreateMove(ctx context.Context, companyID string, req dto.CreateMoveRequest, userID string) (*domain.Move, error)

	// PostMove posts a draft move and seeds the residuals of its lines.
	PostMove(ctx context.Context, companyID string, moveID string, userID string) (*domain.Move, error)

	// UpdateLine edits a line. Amount and account edits on reconciled lines are rejected.
	UpdateLine(ctx context.Context, companyID string, lineID string, req dto.UpdateLineRequest, userID string) (*domain.JournalLine, error)
}

// MoveSvcFacade combines all move-related service interfaces
type MoveSvcFacade interface {
	MoveReaderSvc
	MoveWriterSvc
}

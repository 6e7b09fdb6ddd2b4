package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// JournalReader defines read operations for journals (books)
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
}

// JournalWriter defines write operations for journals (books)
type JournalWriter interface {
	// SaveJournal persists a new journal.
	SaveJournal(ctx context.Context, journal domain.Journal) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// MoveReader defines read operations for moves and their lines
type MoveReader interface {
	// FindMoveByID retrieves a move together with its lines ordered by sequence.
	FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error)

	// FindMovesByIDs retrieves move headers (without lines), keyed by move ID.
	FindMovesByIDs(ctx context.Context, moveIDs []string) (map[string]domain.Move, error)
}

// MoveWriter defines write operations for moves
type MoveWriter interface {
	// SaveMove persists a move and all of its lines.
	SaveMove(ctx context.Context, move domain.Move) error

	// UpdateMoveState changes the state of a move.
	UpdateMoveState(ctx context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error
}

// LineReader defines read operations for journal lines
type LineReader interface {
	// FindLinesByIDs retrieves lines by ID in no particular order.
	FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error)

	// LockLinesForUpdate retrieves lines and locks them until the enclosing transaction ends.
	LockLinesForUpdate(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error)

	// ListOpenLinesByAccount retrieves a page of unreconciled lines on an account using token-based
	// pagination. It returns the lines, a token for the next page, and an error.
	ListOpenLinesByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// LineWriter defines write operations for journal lines
type LineWriter interface {
	// UpdateLineResiduals stores the residual and reconciled fields of lines.
	UpdateLineResiduals(ctx context.Context, lines []domain.JournalLine) error

	// UpdateLine stores the editable fields of a posted line.
	UpdateLine(ctx context.Context, line domain.JournalLine) error
}

// MoveRepositoryFacade combines all move and line repository interfaces
// This is a facade for clients that need access to all operations
type MoveRepositoryFacade interface {
	MoveReader
	MoveWriter
	LineReader
	LineWriter
}

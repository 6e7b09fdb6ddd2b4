package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
	"github.com/SscSPs/money_reconcile/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const (
	moveColumns = `move_id, company_id, journal_id, move_date, ref, state, reversed_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

	lineColumns = `line_id, move_id, company_id, account_id, partner_id, name, sequence, line_date, date_maturity,
	currency_code, company_currency_code, balance, amount_currency, amount_residual, amount_residual_currency,
	reconciled, full_reconcile_id, created_at, created_by, last_updated_at, last_updated_by`
)

type PgxJournalRepository struct {
	BaseRepository
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournal inserts a new journal.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (journal_id, company_id, code, name, journal_type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query, m.JournalID, m.CompanyID, m.Code, m.Name, m.Type,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return mapPgError(err, "save journal "+m.JournalID)
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, company_id, code, name, journal_type, created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE journal_id = $1;
	`
	var m models.Journal
	err := r.db.QueryRow(ctx, query, journalID).Scan(&m.JournalID, &m.CompanyID, &m.Code, &m.Name, &m.Type,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, mapPgError(err, "find journal "+journalID)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

type PgxMoveRepository struct {
	BaseRepository
}

var _ portsrepo.MoveRepositoryFacade = (*PgxMoveRepository)(nil)

func scanMove(row pgx.Row) (models.Move, error) {
	var m models.Move
	err := row.Scan(&m.MoveID, &m.CompanyID, &m.JournalID, &m.Date, &m.Ref, &m.State, &m.ReversedEntryID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID, &m.MoveID, &m.CompanyID, &m.AccountID, &m.PartnerID, &m.Name, &m.Sequence, &m.Date, &m.DateMaturity,
		&m.CurrencyCode, &m.CompanyCurrencyCode, &m.Balance, &m.AmountCurrency, &m.AmountResidual, &m.AmountResidualCurrency,
		&m.Reconciled, &m.FullReconcileID, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMoveRepository) queryLines(ctx context.Context, what, query string, args ...any) ([]domain.JournalLine, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, what)
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalLine, error) {
		return scanLine(row)
	})
	if err != nil {
		return nil, mapPgError(err, what)
	}
	return mapping.ToDomainJournalLineSlice(found), nil
}

// SaveMove inserts the move header and all its lines in one batch.
func (r *PgxMoveRepository) SaveMove(ctx context.Context, move domain.Move) error {
	m := mapping.ToModelMove(move)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO moves (`+moveColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		m.MoveID, m.CompanyID, m.JournalID, m.Date, m.Ref, m.State, m.ReversedEntryID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)

	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`
	for _, line := range move.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			l.LineID, l.MoveID, l.CompanyID, l.AccountID, l.PartnerID, l.Name, l.Sequence, l.Date, l.DateMaturity,
			l.CurrencyCode, l.CompanyCurrencyCode, l.Balance, l.AmountCurrency, l.AmountResidual, l.AmountResidualCurrency,
			l.Reconciled, l.FullReconcileID, l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy)
	}
	return r.execBatch(ctx, batch, "save move "+m.MoveID, false)
}

// FindMoveByID retrieves a move with its lines ordered by sequence.
func (r *PgxMoveRepository) FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error) {
	m, err := scanMove(r.db.QueryRow(ctx, `SELECT `+moveColumns+` FROM moves WHERE move_id = $1;`, moveID))
	if err != nil {
		return nil, mapPgError(err, "find move "+moveID)
	}
	move := mapping.ToDomainMove(m)
	move.Lines, err = r.queryLines(ctx, "find lines of move "+moveID,
		`SELECT `+lineColumns+` FROM journal_lines WHERE move_id = $1 ORDER BY sequence;`, moveID)
	if err != nil {
		return nil, err
	}
	return &move, nil
}

// FindMovesByIDs retrieves move headers keyed by ID. Lines are not loaded.
func (r *PgxMoveRepository) FindMovesByIDs(ctx context.Context, moveIDs []string) (map[string]domain.Move, error) {
	out := make(map[string]domain.Move, len(moveIDs))
	if len(moveIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+moveColumns+` FROM moves WHERE move_id = ANY($1);`, moveIDs)
	if err != nil {
		return nil, mapPgError(err, "query moves")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Move, error) {
		return scanMove(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan moves")
	}
	for _, m := range found {
		out[m.MoveID] = mapping.ToDomainMove(m)
	}
	return out, nil
}

// UpdateMoveState changes the state of a move.
func (r *PgxMoveRepository) UpdateMoveState(ctx context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE moves SET state = $2, last_updated_at = $3, last_updated_by = $4 WHERE move_id = $1;`,
		moveID, string(state), now, userID)
	if err != nil {
		return mapPgError(err, "update move "+moveID)
	}
	if ct.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "update move "+moveID)
	}
	return nil
}

// FindLinesByIDs retrieves lines by ID. Unknown IDs are skipped.
func (r *PgxMoveRepository) FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error) {
	if len(lineIDs) == 0 {
		return []domain.JournalLine{}, nil
	}
	return r.queryLines(ctx, "query journal lines",
		`SELECT `+lineColumns+` FROM journal_lines WHERE line_id = ANY($1) ORDER BY line_id;`, lineIDs)
}

// LockLinesForUpdate reads lines with a row lock held until the transaction ends.
// Rows are locked in ID order so concurrent reconciliations cannot deadlock on each other.
func (r *PgxMoveRepository) LockLinesForUpdate(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error) {
	if len(lineIDs) == 0 {
		return []domain.JournalLine{}, nil
	}
	return r.queryLines(ctx, "lock journal lines",
		`SELECT `+lineColumns+` FROM journal_lines WHERE line_id = ANY($1) ORDER BY line_id FOR UPDATE;`, lineIDs)
}

// ListOpenLinesByAccount pages through the posted, unreconciled lines of an account ordered by
// date then ID. The returned token is nil on the last page.
func (r *PgxMoveRepository) ListOpenLinesByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	query := `
		SELECT ` + prefixed("l", lineColumns) + `
		FROM journal_lines l
		JOIN moves m ON m.move_id = l.move_id
		WHERE l.company_id = $1 AND l.account_id = $2 AND l.reconciled = FALSE AND m.state = $3`
	args := []any{companyID, accountID, string(domain.MovePosted)}

	if nextToken != nil && *nextToken != "" {
		afterDate, afterID, err := pagination.DecodeLineToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (l.line_date, l.line_id) > ($4, $5)`
		args = append(args, afterDate, afterID)
	}
	query += ` ORDER BY l.line_date, l.line_id`
	if limit > 0 {
		// one extra row tells whether another page exists
		query += fmt.Sprintf(` LIMIT %d`, limit+1)
	}

	lines, err := r.queryLines(ctx, "list open lines", query, args...)
	if err != nil {
		return nil, nil, err
	}
	var token *string
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		t := pagination.EncodeLineToken(last.Date, last.LineID)
		token = &t
	}
	return lines, token, nil
}

// UpdateLineResiduals writes the residual amounts and reconciled flag of each line.
func (r *PgxMoveRepository) UpdateLineResiduals(ctx context.Context, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(`
			UPDATE journal_lines
			SET amount_residual = $2, amount_residual_currency = $3, reconciled = $4
			WHERE line_id = $1;`,
			line.LineID, line.AmountResidual, line.AmountResidualCurrency, line.Reconciled)
	}
	return r.execBatch(ctx, batch, "update line residuals", true)
}

// UpdateLine writes the editable fields of a line.
func (r *PgxMoveRepository) UpdateLine(ctx context.Context, line domain.JournalLine) error {
	l := mapping.ToModelJournalLine(line)
	query := `
		UPDATE journal_lines
		SET account_id = $2, partner_id = $3, name = $4, date_maturity = $5, balance = $6, amount_currency = $7,
			amount_residual = $8, amount_residual_currency = $9, reconciled = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE line_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		l.LineID, l.AccountID, l.PartnerID, l.Name, l.DateMaturity, l.Balance, l.AmountCurrency,
		l.AmountResidual, l.AmountResidualCurrency, l.Reconciled, l.LastUpdatedAt, l.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update journal line "+l.LineID)
	}
	if ct.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "update journal line "+l.LineID)
	}
	return nil
}

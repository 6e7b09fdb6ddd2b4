package pgsql

import (
	"context"
	"sort"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/models"
	"github.com/SscSPs/money_reconcile/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const partialColumns = `partial_id, company_id, debit_line_id, credit_line_id, amount,
	debit_amount_currency, credit_amount_currency, full_reconcile_id, created_at, created_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

func scanPartial(row pgx.Row) (models.PartialReconcile, error) {
	var m models.PartialReconcile
	err := row.Scan(&m.PartialID, &m.CompanyID, &m.DebitLineID, &m.CreditLineID, &m.Amount,
		&m.DebitAmountCurrency, &m.CreditAmountCurrency, &m.FullReconcileID, &m.CreatedAt, &m.CreatedBy)
	return m, err
}

// FindPartialsByLineIDs returns every partial touching one of lineIDs on either side, in
// creation order.
func (r *PgxReconciliationRepository) FindPartialsByLineIDs(ctx context.Context, lineIDs []string) ([]domain.PartialReconcile, error) {
	if len(lineIDs) == 0 {
		return []domain.PartialReconcile{}, nil
	}
	query := `
		SELECT ` + partialColumns + `
		FROM partial_reconciles
		WHERE debit_line_id = ANY($1) OR credit_line_id = ANY($1)
		ORDER BY seq;
	`
	rows, err := r.db.Query(ctx, query, lineIDs)
	if err != nil {
		return nil, mapPgError(err, "query partial reconciles")
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PartialReconcile, error) {
		return scanPartial(row)
	})
	if err != nil {
		return nil, mapPgError(err, "scan partial reconciles")
	}
	out := make([]domain.PartialReconcile, len(found))
	for i, m := range found {
		out[i] = mapping.ToDomainPartialReconcile(m)
	}
	return out, nil
}

// FindFullReconcilesByIDs loads full reconciles together with the IDs of their member lines and partials.
func (r *PgxReconciliationRepository) FindFullReconcilesByIDs(ctx context.Context, fullIDs []string) ([]domain.FullReconcile, error) {
	if len(fullIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT full_reconcile_id, company_id, exchange_move_id, created_at, created_by
		FROM full_reconciles
		WHERE full_reconcile_id = ANY($1)
		ORDER BY created_at, full_reconcile_id;`, fullIDs)
	if err != nil {
		return nil, mapPgError(err, "query full reconciles")
	}
	fulls, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FullReconcile, error) {
		var m models.FullReconcile
		err := row.Scan(&m.FullReconcileID, &m.CompanyID, &m.ExchangeMoveID, &m.CreatedAt, &m.CreatedBy)
		return m, err
	})
	if err != nil {
		return nil, mapPgError(err, "scan full reconciles")
	}
	if len(fulls) == 0 {
		return nil, nil
	}

	lineIDs, err := r.membersByFull(ctx, "journal lines of full reconciles",
		`SELECT full_reconcile_id, line_id FROM journal_lines WHERE full_reconcile_id = ANY($1) ORDER BY line_id;`, fullIDs)
	if err != nil {
		return nil, err
	}
	partialIDs, err := r.membersByFull(ctx, "partials of full reconciles",
		`SELECT full_reconcile_id, partial_id FROM partial_reconciles WHERE full_reconcile_id = ANY($1) ORDER BY seq;`, fullIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FullReconcile, 0, len(fulls))
	for _, m := range fulls {
		lines := lineIDs[m.FullReconcileID]
		sort.Strings(lines)
		out = append(out, mapping.ToDomainFullReconcile(m, partialIDs[m.FullReconcileID], lines))
	}
	return out, nil
}

func (r *PgxReconciliationRepository) membersByFull(ctx context.Context, what, query string, fullIDs []string) (map[string][]string, error) {
	rows, err := r.db.Query(ctx, query, fullIDs)
	if err != nil {
		return nil, mapPgError(err, "query "+what)
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var fullID, memberID string
		if err := rows.Scan(&fullID, &memberID); err != nil {
			return nil, mapPgError(err, "scan "+what)
		}
		members[fullID] = append(members[fullID], memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate "+what)
	}
	return members, nil
}

// SavePartials inserts partials in the given order; seq preserves it for later reads.
func (r *PgxReconciliationRepository) SavePartials(ctx context.Context, partials []domain.PartialReconcile) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO partial_reconciles (` + partialColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, p := range partials {
		m := mapping.ToModelPartialReconcile(p)
		batch.Queue(query, m.PartialID, m.CompanyID, m.DebitLineID, m.CreditLineID, m.Amount,
			m.DebitAmountCurrency, m.CreditAmountCurrency, m.FullReconcileID, m.CreatedAt, m.CreatedBy)
	}
	return r.execBatch(ctx, batch, "save partial reconciles", false)
}

// DeletePartials removes partials by ID.
func (r *PgxReconciliationRepository) DeletePartials(ctx context.Context, partialIDs []string) error {
	if len(partialIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM partial_reconciles WHERE partial_id = ANY($1);`, partialIDs)
	return mapPgError(err, "delete partial reconciles")
}

// SaveFullReconcile inserts the full reconcile and links its lines and partials to it.
func (r *PgxReconciliationRepository) SaveFullReconcile(ctx context.Context, full domain.FullReconcile) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO full_reconciles (full_reconcile_id, company_id, exchange_move_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5);`,
		full.FullReconcileID, full.CompanyID, full.ExchangeMoveID, full.CreatedAt, full.CreatedBy)
	for _, id := range full.LineIDs {
		batch.Queue(`UPDATE journal_lines SET full_reconcile_id = $1 WHERE line_id = $2;`, full.FullReconcileID, id)
	}
	for _, id := range full.PartialIDs {
		batch.Queue(`UPDATE partial_reconciles SET full_reconcile_id = $1 WHERE partial_id = $2;`, full.FullReconcileID, id)
	}
	return r.execBatch(ctx, batch, "save full reconcile "+full.FullReconcileID, true)
}

// DeleteFullReconciles removes full reconciles. Member links are cleared by ON DELETE SET NULL.
func (r *PgxReconciliationRepository) DeleteFullReconciles(ctx context.Context, fullIDs []string) error {
	if len(fullIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM full_reconciles WHERE full_reconcile_id = ANY($1);`, fullIDs)
	return mapPgError(err, "delete full reconciles")
}

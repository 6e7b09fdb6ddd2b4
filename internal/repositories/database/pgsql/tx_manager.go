package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs units of work in serializable transactions.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager on pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// RunInTx begins a serializable transaction, hands fn repositories bound to it and commits when
// fn succeeds. Serialization failures at any point, including commit, surface as ErrConflict.
func (m *TxManager) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "commit transaction")
	}
	return nil
}

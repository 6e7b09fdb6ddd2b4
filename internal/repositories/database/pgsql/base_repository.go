package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository can run either
// directly on the pool or inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

// execBatch sends batch and checks every statement. With mustAffect set, a statement that
// touches no row fails the batch with ErrNotFound.
func (r *BaseRepository) execBatch(ctx context.Context, batch *pgx.Batch, what string, mustAffect bool) error {
	if batch.Len() == 0 {
		return nil
	}
	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapPgError(err, what)
			}
			continue
		}
		if mustAffect && ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: %s (statement %d)", apperrors.ErrNotFound, what, i+1)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapPgError(err, what)
	}
	return batchErr
}

// mapPgError translates Postgres error codes into application errors.
func mapPgError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, what, pgErr.Message)
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, what)
		case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, what, pgErr.Detail)
		}
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

// prefixed qualifies every column of a comma separated list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

package repositories

import (
	"context"
)

// TxFunc is the unit of work run by a TransactionManager. Every repository in repos is bound
// to the same transaction.
type TxFunc func(ctx context.Context, repos RepositoryProvider) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// RunInTx runs fn inside one serializable transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. Serialization failures surface as apperrors.ErrConflict.
	RunInTx(ctx context.Context, fn TxFunc) error
}

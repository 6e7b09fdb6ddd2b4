package repositories

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// ReconciliationReader defines read operations for partial and full reconciliations
type ReconciliationReader interface {
	// FindPartialsByLineIDs retrieves every partial with a debit or credit side in lineIDs.
	FindPartialsByLineIDs(ctx context.Context, lineIDs []string) ([]domain.PartialReconcile, error)

	// FindFullReconcilesByIDs retrieves full reconciliations, including their partial and line IDs.
	FindFullReconcilesByIDs(ctx context.Context, fullIDs []string) ([]domain.FullReconcile, error)
}

// ReconciliationWriter defines write operations for partial and full reconciliations
type ReconciliationWriter interface {
	// SavePartials persists new partial reconciliations.
	SavePartials(ctx context.Context, partials []domain.PartialReconcile) error

	// DeletePartials removes partial reconciliations.
	DeletePartials(ctx context.Context, partialIDs []string) error

	// SaveFullReconcile persists a full reconciliation and links its lines and partials to it.
	SaveFullReconcile(ctx context.Context, full domain.FullReconcile) error

	// DeleteFullReconciles removes full reconciliations and clears the links pointing to them.
	DeleteFullReconciles(ctx context.Context, fullIDs []string) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}

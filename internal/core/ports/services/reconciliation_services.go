package services

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
)

// ReconciliationSvc settles journal lines against each other.
type ReconciliationSvc interface {
	// Reconcile matches lineIDs (and every line already linked to them) and closes the group
	// when nothing remains open, booking an exchange difference move for rounding leftovers.
	Reconcile(ctx context.Context, companyID string, lineIDs []string, opts domain.ReconcileOptions, userID string) (*domain.ReconcileResult, error)

	// Unreconcile removes every partial and full reconciliation touching lineIDs and reverses
	// the exchange difference moves of the removed full reconciliations.
	Unreconcile(ctx context.Context, companyID string, lineIDs []string, userID string) (*domain.UnreconcileResult, error)
}

// CashBasisHook is the collaborator for cash-basis taxes.
type CashBasisHook interface {
	// CreateCashBasisEntries books the cash-basis tax entries due for newly created partials.
	CreateCashBasisEntries(ctx context.Context, company domain.Company, partials []domain.PartialReconcile) error

	// CollectCashBasisAdjustments reports whether move is fully paid and the outstanding
	// balances of its cash-basis transfer and base accounts.
	CollectCashBasisAdjustments(ctx context.Context, move domain.Move) (*domain.CashBasisReport, error)
}

// EventPublisher delivers reconciliation events after the enclosing transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReconciliationEvent) error
}

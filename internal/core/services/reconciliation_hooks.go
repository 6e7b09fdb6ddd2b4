package services

import (
	"context"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
)

// noopCashBasisHook is used when no cash-basis tax engine is wired in.
type noopCashBasisHook struct{}

// NoopCashBasisHook returns a hook that books nothing and never reports a move as fully paid.
func NoopCashBasisHook() portssvc.CashBasisHook {
	return noopCashBasisHook{}
}

func (noopCashBasisHook) CreateCashBasisEntries(context.Context, domain.Company, []domain.PartialReconcile) error {
	return nil
}

func (noopCashBasisHook) CollectCashBasisAdjustments(context.Context, domain.Move) (*domain.CashBasisReport, error) {
	return &domain.CashBasisReport{}, nil
}

type noopPublisher struct{}

// NoopPublisher drops every event.
func NoopPublisher() portssvc.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, domain.ReconciliationEvent) error {
	return nil
}

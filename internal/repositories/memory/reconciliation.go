package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
)

type reconciliationRepository struct{ *view }

var _ portsrepo.ReconciliationRepositoryFacade = (*reconciliationRepository)(nil)

func (r *reconciliationRepository) FindPartialsByLineIDs(_ context.Context, lineIDs []string) ([]domain.PartialReconcile, error) {
	wanted := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = struct{}{}
	}

	var found []storedPartial
	err := r.read(func(d *dataset) error {
		for _, sp := range d.partials {
			_, debit := wanted[sp.partial.DebitLineID]
			_, credit := wanted[sp.partial.CreditLineID]
			if debit || credit {
				found = append(found, sp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedPartials(found), nil
}

func (r *reconciliationRepository) FindFullReconcilesByIDs(_ context.Context, fullIDs []string) ([]domain.FullReconcile, error) {
	var out []domain.FullReconcile
	err := r.read(func(d *dataset) error {
		for _, id := range fullIDs {
			full, ok := d.fulls[id]
			if !ok {
				continue
			}
			full.LineIDs = nil
			full.PartialIDs = nil
			for _, l := range d.lines {
				if l.FullReconcileID != nil && *l.FullReconcileID == id {
					full.LineIDs = append(full.LineIDs, l.LineID)
				}
			}
			var partials []storedPartial
			for _, sp := range d.partials {
				if sp.partial.FullReconcileID != nil && *sp.partial.FullReconcileID == id {
					partials = append(partials, sp)
				}
			}
			for _, p := range sortedPartials(partials) {
				full.PartialIDs = append(full.PartialIDs, p.PartialID)
			}
			sort.Strings(full.LineIDs)
			out = append(out, full)
		}
		return nil
	})
	return out, err
}

func (r *reconciliationRepository) SavePartials(_ context.Context, partials []domain.PartialReconcile) error {
	return r.write(func(d *dataset) error {
		for _, p := range partials {
			if _, ok := d.partials[p.PartialID]; ok {
				return duplicate("partial reconcile", p.PartialID)
			}
			if _, ok := d.lines[p.DebitLineID]; !ok {
				return notFound("journal line", p.DebitLineID)
			}
			if _, ok := d.lines[p.CreditLineID]; !ok {
				return notFound("journal line", p.CreditLineID)
			}
		}
		for _, p := range partials {
			d.nextSeq++
			d.partials[p.PartialID] = storedPartial{partial: p, seq: d.nextSeq}
		}
		return nil
	})
}

func (r *reconciliationRepository) DeletePartials(_ context.Context, partialIDs []string) error {
	return r.write(func(d *dataset) error {
		for _, id := range partialIDs {
			delete(d.partials, id)
		}
		return nil
	})
}

func (r *reconciliationRepository) SaveFullReconcile(_ context.Context, full domain.FullReconcile) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.fulls[full.FullReconcileID]; ok {
			return duplicate("full reconcile", full.FullReconcileID)
		}
		fullID := full.FullReconcileID
		for _, id := range full.LineIDs {
			l, ok := d.lines[id]
			if !ok {
				return notFound("journal line", id)
			}
			l.FullReconcileID = &fullID
			d.lines[id] = l
		}
		for _, id := range full.PartialIDs {
			sp, ok := d.partials[id]
			if !ok {
				return notFound("partial reconcile", id)
			}
			sp.partial.FullReconcileID = &fullID
			d.partials[id] = sp
		}
		full.LineIDs = nil
		full.PartialIDs = nil
		d.fulls[fullID] = full
		return nil
	})
}

func (r *reconciliationRepository) DeleteFullReconciles(_ context.Context, fullIDs []string) error {
	return r.write(func(d *dataset) error {
		doomed := make(map[string]struct{}, len(fullIDs))
		for _, id := range fullIDs {
			doomed[id] = struct{}{}
			delete(d.fulls, id)
		}
		for id, l := range d.lines {
			if l.FullReconcileID == nil {
				continue
			}
			if _, ok := doomed[*l.FullReconcileID]; ok {
				l.FullReconcileID = nil
				d.lines[id] = l
			}
		}
		for id, sp := range d.partials {
			if sp.partial.FullReconcileID == nil {
				continue
			}
			if _, ok := doomed[*sp.partial.FullReconcileID]; ok {
				sp.partial.FullReconcileID = nil
				d.partials[id] = sp
			}
		}
		return nil
	})
}

func sortedPartials(found []storedPartial) []domain.PartialReconcile {
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })
	out := make([]domain.PartialReconcile, len(found))
	for i, sp := range found {
		out[i] = sp.partial
	}
	return out
}

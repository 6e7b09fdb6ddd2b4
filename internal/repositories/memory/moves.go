package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
	"github.com/SscSPs/money_reconcile/internal/utils/pagination"
)

type moveRepository struct{ *view }

var _ portsrepo.MoveRepositoryFacade = (*moveRepository)(nil)

func (r *moveRepository) FindMoveByID(_ context.Context, moveID string) (*domain.Move, error) {
	var out domain.Move
	err := r.read(func(d *dataset) error {
		m, ok := d.moves[moveID]
		if !ok {
			return notFound("move", moveID)
		}
		out = m
		for _, l := range d.lines {
			if l.MoveID == moveID {
				out.Lines = append(out.Lines, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out.Lines, func(i, j int) bool { return out.Lines[i].Sequence < out.Lines[j].Sequence })
	return &out, nil
}

func (r *moveRepository) FindMovesByIDs(_ context.Context, moveIDs []string) (map[string]domain.Move, error) {
	out := make(map[string]domain.Move, len(moveIDs))
	err := r.read(func(d *dataset) error {
		for _, id := range moveIDs {
			if m, ok := d.moves[id]; ok {
				out[id] = m
			}
		}
		return nil
	})
	return out, err
}

func (r *moveRepository) SaveMove(_ context.Context, move domain.Move) error {
	return r.write(func(d *dataset) error {
		if _, ok := d.moves[move.MoveID]; ok {
			return duplicate("move", move.MoveID)
		}
		for _, l := range move.Lines {
			if _, ok := d.lines[l.LineID]; ok {
				return duplicate("journal line", l.LineID)
			}
		}
		for _, l := range move.Lines {
			d.lines[l.LineID] = l
		}
		move.Lines = nil
		d.moves[move.MoveID] = move
		return nil
	})
}

func (r *moveRepository) UpdateMoveState(_ context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error {
	return r.write(func(d *dataset) error {
		m, ok := d.moves[moveID]
		if !ok {
			return notFound("move", moveID)
		}
		m.State = state
		m.LastUpdatedAt = now
		m.LastUpdatedBy = userID
		d.moves[moveID] = m
		return nil
	})
}

func (r *moveRepository) FindLinesByIDs(_ context.Context, lineIDs []string) ([]domain.JournalLine, error) {
	out := make([]domain.JournalLine, 0, len(lineIDs))
	err := r.read(func(d *dataset) error {
		for _, id := range lineIDs {
			if l, ok := d.lines[id]; ok {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, err
}

// LockLinesForUpdate is FindLinesByIDs: transactions on the store never overlap.
func (r *moveRepository) LockLinesForUpdate(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error) {
	return r.FindLinesByIDs(ctx, lineIDs)
}

func (r *moveRepository) ListOpenLinesByAccount(_ context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	var (
		afterDate time.Time
		afterID   string
	)
	if nextToken != nil && *nextToken != "" {
		var err error
		afterDate, afterID, err = pagination.DecodeLineToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	var open []domain.JournalLine
	err := r.read(func(d *dataset) error {
		for _, l := range d.lines {
			if l.CompanyID != companyID || l.AccountID != accountID || l.Reconciled {
				continue
			}
			if m, ok := d.moves[l.MoveID]; !ok || !m.IsPosted() {
				continue
			}
			if afterID != "" && !lineAfter(l, afterDate, afterID) {
				continue
			}
			open = append(open, l)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(open, func(i, j int) bool {
		return lineAfter(open[j], open[i].Date, open[i].LineID)
	})

	var token *string
	if limit > 0 && len(open) > limit {
		open = open[:limit]
		last := open[len(open)-1]
		t := pagination.EncodeLineToken(last.Date, last.LineID)
		token = &t
	}
	return open, token, nil
}

// lineAfter reports whether l sorts after the (date, id) cursor.
func lineAfter(l domain.JournalLine, date time.Time, id string) bool {
	if !l.Date.Equal(date) {
		return l.Date.After(date)
	}
	return l.LineID > id
}

func (r *moveRepository) UpdateLineResiduals(_ context.Context, lines []domain.JournalLine) error {
	return r.write(func(d *dataset) error {
		for _, l := range lines {
			stored, ok := d.lines[l.LineID]
			if !ok {
				return notFound("journal line", l.LineID)
			}
			stored.AmountResidual = l.AmountResidual
			stored.AmountResidualCurrency = l.AmountResidualCurrency
			stored.Reconciled = l.Reconciled
			d.lines[l.LineID] = stored
		}
		return nil
	})
}

func (r *moveRepository) UpdateLine(_ context.Context, line domain.JournalLine) error {
	return r.write(func(d *dataset) error {
		stored, ok := d.lines[line.LineID]
		if !ok {
			return notFound("journal line", line.LineID)
		}
		stored.AccountID = line.AccountID
		stored.PartnerID = line.PartnerID
		stored.Name = line.Name
		stored.DateMaturity = line.DateMaturity
		stored.Balance = line.Balance
		stored.AmountCurrency = line.AmountCurrency
		stored.AmountResidual = line.AmountResidual
		stored.AmountResidualCurrency = line.AmountResidualCurrency
		stored.Reconciled = line.Reconciled
		stored.LastUpdatedAt = line.LastUpdatedAt
		stored.LastUpdatedBy = line.LastUpdatedBy
		d.lines[line.LineID] = stored
		return nil
	})
}

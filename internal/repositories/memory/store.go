// Package memory is a transactional in-memory implementation of the repository ports. Each
// transaction works on a private copy of the data which replaces the shared copy on commit.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portsrepo "github.com/SscSPs/money_reconcile/internal/core/ports/repositories"
)

type storedPartial struct {
	partial domain.PartialReconcile
	seq     int64
}

type dataset struct {
	companies  map[string]domain.Company
	accounts   map[string]domain.Account
	currencies map[string]domain.Currency
	rates      map[string]domain.ExchangeRate
	journals   map[string]domain.Journal
	moves      map[string]domain.Move // headers, Lines is always nil
	lines      map[string]domain.JournalLine
	partials   map[string]storedPartial
	fulls      map[string]domain.FullReconcile // LineIDs and PartialIDs are derived on read
	nextSeq    int64
}

func newDataset() *dataset {
	return &dataset{
		companies:  make(map[string]domain.Company),
		accounts:   make(map[string]domain.Account),
		currencies: make(map[string]domain.Currency),
		rates:      make(map[string]domain.ExchangeRate),
		journals:   make(map[string]domain.Journal),
		moves:      make(map[string]domain.Move),
		lines:      make(map[string]domain.JournalLine),
		partials:   make(map[string]storedPartial),
		fulls:      make(map[string]domain.FullReconcile),
	}
}

// clone copies every map. Stored values are never mutated in place, so a shallow copy of each
// entry is enough.
func (d *dataset) clone() *dataset {
	return &dataset{
		companies:  cloneMap(d.companies),
		accounts:   cloneMap(d.accounts),
		currencies: cloneMap(d.currencies),
		rates:      cloneMap(d.rates),
		journals:   cloneMap(d.journals),
		moves:      cloneMap(d.moves),
		lines:      cloneMap(d.lines),
		partials:   cloneMap(d.partials),
		fulls:      cloneMap(d.fulls),
		nextSeq:    d.nextSeq,
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store holds the committed data. Transactions are serialized.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *dataset

	failCommits int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// FailNextCommits makes the next n commits fail with apperrors.ErrConflict, the way a
// serialization failure surfaces from the database.
func (s *Store) FailNextCommits(n int) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.failCommits = n
}

// Repositories returns repositories reading and writing the committed data directly.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newProvider(&view{mu: &s.mu, data: func() *dataset { return s.data }})
}

// RunInTx runs fn against a private copy of the data and publishes the copy if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, newProvider(&view{mu: &sync.RWMutex{}, data: func() *dataset { return work }})); err != nil {
		return err
	}

	if s.failCommits > 0 {
		s.failCommits--
		return fmt.Errorf("%w: could not serialize access due to concurrent update", apperrors.ErrConflict)
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// view is the receiver of every repository method.
type view struct {
	mu   *sync.RWMutex
	data func() *dataset
}

func (v *view) read(fn func(d *dataset) error) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return fn(v.data())
}

func (v *view) write(fn func(d *dataset) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fn(v.data())
}

func newProvider(v *view) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:        &companyRepository{v},
		AccountRepo:        &accountRepository{v},
		CurrencyRepo:       &currencyRepository{v},
		ExchangeRateRepo:   &exchangeRateRepository{v},
		JournalRepo:        &journalRepository{v},
		MoveRepo:           &moveRepository{v},
		ReconciliationRepo: &reconciliationRepository{v},
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, kind, id)
}

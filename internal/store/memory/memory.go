// Package memory is a volatile, mutex guarded transaction store.
package memory

import (
	"context"
	"slices"
	"sync"

	"moneymate/internal/core"
	"moneymate/internal/query"
	"moneymate/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction // insertion order
	index map[string]int
	newID store.IDFunc
	now   store.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the UUID generator.
func WithIDFunc(f store.IDFunc) Option { return func(s *Store) { s.newID = f } }

// WithClock replaces the clock used for createdAt.
func WithClock(c store.Clock) Option { return func(s *Store) { s.now = c } }

func New(opts ...Option) *Store {
	s := &Store{index: map[string]int{}, newID: store.NewID, now: store.SystemClock}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ store.Repository = (*Store)(nil)

// Restore replaces the contents with txs, keeping their ids and creation
// times. txs must be in insertion order.
func (s *Store) Restore(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(txs)
	s.reindex()
}

// Snapshot returns every transaction in insertion order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len is the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, t := range s.items {
		s.index[t.ID] = i
	}
}

func (s *Store) newTransaction(e core.Entry) core.Transaction {
	return core.Transaction{ID: s.newID(), Entry: e, CreatedAt: s.now()}
}

func (s *Store) Create(_ context.Context, e core.Entry) (core.Transaction, error) {
	if err := e.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.newTransaction(e)
	s.index[t.ID] = len(s.items)
	s.items = append(s.items, t)
	return t, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, false, nil
	}
	return s.items[i], true, nil
}

func (s *Store) Update(_ context.Context, id string, p core.Patch) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, false, nil
	}
	merged, err := p.Apply(s.items[i].Entry)
	if err != nil {
		return core.Transaction{}, true, err
	}
	s.items[i].Entry = merged
	return s.items[i], true, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.reindex()
	return true, nil
}

// List filters by c and returns the result by date descending. The sort is
// stable over insertion order, so same-day transactions come out oldest
// insert first.
func (s *Store) List(_ context.Context, c query.Criteria) ([]core.Transaction, error) {
	s.mu.Lock()
	out := query.Apply(s.items, c)
	s.mu.Unlock()
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

func (s *Store) Import(_ context.Context, entries []core.Entry) ([]core.Transaction, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]core.Transaction, 0, len(entries))
	for _, e := range entries {
		t := s.newTransaction(e)
		s.index[t.ID] = len(s.items)
		s.items = append(s.items, t)
		added = append(added, t)
	}
	return added, nil
}

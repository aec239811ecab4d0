// Package file persists the transaction collection as a JSON backup
// document. The whole file is rewritten after every successful write.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"moneymate/internal/core"
	"moneymate/internal/export"
	"moneymate/internal/query"
	"moneymate/internal/store"
	"moneymate/internal/store/memory"
)

type Store struct {
	mu   sync.Mutex
	path string
	mem  *memory.Store
	now  store.Clock
}

var _ store.Repository = (*Store)(nil)

// Open loads path if it exists. A missing file is an empty store; the
// directory is created on first write.
func Open(path string, opts ...memory.Option) (*Store, error) {
	s := &Store{path: path, mem: memory.New(opts...), now: store.SystemClock}
	txs, err := load(path)
	if err != nil {
		return nil, err
	}
	s.mem.Restore(txs)
	return s, nil
}

// Len returns the number of stored transactions.
func (s *Store) Len() int { return s.mem.Len() }

func load(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var doc struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", path, err)
	}
	// the file is written in insertion order
	return doc.Transactions, nil
}

// persist writes a snapshot next to the target and renames it into place.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".moneymate-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteBackup(tmp, s.mem.Snapshot(), s.now()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// commit runs change against the memory store and persists the result.
// When persisting fails the memory store is rolled back, so a failed write
// is never visible. Callers hold s.mu.
func (s *Store) commit(change func() (bool, error)) error {
	prev := s.mem.Snapshot()
	changed, err := change()
	if err != nil || !changed {
		return err
	}
	if err := s.persist(); err != nil {
		s.mem.Restore(prev)
		return err
	}
	return nil
}

func (s *Store) Create(ctx context.Context, e core.Entry) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t core.Transaction
	err := s.commit(func() (bool, error) {
		var err error
		t, err = s.mem.Create(ctx, e)
		return true, err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, id string) (core.Transaction, bool, error) {
	return s.mem.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id string, p core.Patch) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		t  core.Transaction
		ok bool
	)
	err := s.commit(func() (bool, error) {
		var err error
		t, ok, err = s.mem.Update(ctx, id, p)
		return ok, err
	})
	if err != nil {
		return core.Transaction{}, ok, err
	}
	return t, ok, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	err := s.commit(func() (bool, error) {
		var err error
		ok, err = s.mem.Delete(ctx, id)
		return ok, err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) List(ctx context.Context, c query.Criteria) ([]core.Transaction, error) {
	return s.mem.List(ctx, c)
}

func (s *Store) Import(ctx context.Context, entries []core.Entry) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []core.Transaction
	err := s.commit(func() (bool, error) {
		var err error
		added, err = s.mem.Import(ctx, entries)
		return len(added) > 0, err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

/*
store.go - In-memory contract collection backed by a Persistence

PURPOSE:
  Store is the source of truth for the contract list. It keeps the list in
  memory and writes the whole list to a Persistence after every mutation.

ORDERING:
  The natural order is most-recently-created first. A new contract is
  inserted at the head. Saving an existing id replaces it in place, so the
  relative order of every other contract is untouched.

PERSISTENCE CONTRACT:
  Load: Returns the stored list. Errors (absent or corrupt data) are
        logged and treated as an empty collection.
  Save: Receives the full current list (whole-collection overwrite, never
        incremental). Errors are logged and swallowed; the in-memory list
        stays authoritative.

IMPLEMENTATIONS:
  - contract/store/memory.go: JSON blob in memory (tests, dev)
  - store/sqlite/sqlite.go:   SQLite table

SEE ALSO:
  - view.go: Read-side projections built from All()
*/
package contract

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Persistence loads and saves the whole contract list.
type Persistence interface {
	// Load returns the stored list in store order.
	Load(ctx context.Context) ([]Contract, error)

	// Save overwrites the stored list with contracts.
	Save(ctx context.Context, contracts []Contract) error
}

// Store holds the contract list.
type Store struct {
	mu          sync.RWMutex
	contracts   []Contract
	persistence Persistence
	logger      *zap.Logger
}

// Open creates a store seeded from p. A failed load starts empty.
func Open(ctx context.Context, p Persistence, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{persistence: p, logger: logger}

	loaded, err := p.Load(ctx)
	if err != nil {
		logger.Warn("discarding unreadable contract list", zap.Error(err))
		loaded = nil
	}
	for _, c := range loaded {
		s.contracts = append(s.contracts, c.Normalize())
	}
	logger.Debug("contract store opened", zap.Int("contracts", len(s.contracts)))
	return s
}

// Upsert saves c. An existing contract with the same id is replaced in
// place and keeps its original CreatedAt; a new id goes to the head.
// replaced reports which of the two happened.
func (s *Store) Upsert(ctx context.Context, c Contract) (saved Contract, replaced bool) {
	c = c.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(c.ID)
	if i >= 0 {
		if !s.contracts[i].CreatedAt.IsZero() {
			c.CreatedAt = s.contracts[i].CreatedAt
		}
		s.contracts[i] = c
	} else {
		s.contracts = append([]Contract{c}, s.contracts...)
	}

	s.saveLocked(ctx)
	return c, i >= 0
}

// Remove deletes the contract with id. Returns false, without saving, if
// there was nothing to delete.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.contracts = append(s.contracts[:i:i], s.contracts[i+1:]...)
	s.saveLocked(ctx)
	return true
}

// Reset replaces the whole collection.
func (s *Store) Reset(ctx context.Context, contracts []Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contracts = make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		s.contracts = append(s.contracts, c.Normalize())
	}
	s.saveLocked(ctx)
}

// FindByID returns the contract with id.
func (s *Store) FindByID(id string) (Contract, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.contracts[i], true
	}
	return Contract{}, false
}

// Get is FindByID returning ErrContractNotFound.
func (s *Store) Get(id string) (Contract, error) {
	c, ok := s.FindByID(id)
	if !ok {
		return Contract{}, ErrContractNotFound
	}
	return c, nil
}

// All returns a snapshot copy of the list in store order.
func (s *Store) All() []Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Contract, len(s.contracts))
	copy(result, s.contracts)
	return result
}

// Len returns the number of contracts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

func (s *Store) indexLocked(id string) int {
	for i, c := range s.contracts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) {
	snapshot := make([]Contract, len(s.contracts))
	copy(snapshot, s.contracts)
	if err := s.persistence.Save(ctx, snapshot); err != nil {
		s.logger.Warn("failed to persist contracts",
			zap.Int("contracts", len(snapshot)),
			zap.Error(err))
	}
}

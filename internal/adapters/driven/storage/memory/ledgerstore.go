package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
// It keeps a copy of the last saved ledger and counts calls, which makes it
// useful for testing services without touching the filesystem.
type LedgerStore struct {
	mu      sync.RWMutex
	path    string
	entries []domain.LedgerEntry
	loadErr error
	saveErr error
	loads   int
	saves   int
}

// NewLedgerStore creates an empty in-memory ledger store.
// Path is only reported back; nothing is written there.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// NewLedgerStoreWith creates a store that loads the given ledger.
func NewLedgerStoreWith(path string, ledger *domain.Ledger) *LedgerStore {
	s := NewLedgerStore(path)
	s.entries = ledger.Entries()
	return s
}

// FailLoad makes subsequent loads fail with a *domain.LoadError wrapping err.
// A nil err clears the failure.
func (s *LedgerStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes subsequent saves fail with a *domain.SaveError wrapping err.
// A nil err clears the failure.
func (s *LedgerStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Load returns a ledger rebuilt from the last saved entries.
func (s *LedgerStore) Load(_ context.Context) (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, &domain.LoadError{Path: s.path, Err: s.loadErr}
	}
	ledger := domain.NewLedger()
	for _, e := range s.entries {
		ledger.Put(e.Key, e.Interests)
	}
	return ledger, nil
}

// Save stores a copy of the ledger's entries.
func (s *LedgerStore) Save(_ context.Context, ledger *domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return &domain.SaveError{Path: s.path, Err: s.saveErr}
	}
	s.entries = ledger.Entries()
	return nil
}

// Path returns the path the store was created with.
func (s *LedgerStore) Path() string {
	return s.path
}

// Close is a no-op.
func (s *LedgerStore) Close() error {
	return nil
}

// Entries returns copies of the last saved entries, oldest first.
func (s *LedgerStore) Entries() []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = domain.LedgerEntry{Key: e.Key, Interests: e.Interests.Clone()}
	}
	return out
}

// Loads returns how many times Load was called.
func (s *LedgerStore) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}

// Saves returns how many times Save was called.
func (s *LedgerStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

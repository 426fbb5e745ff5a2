package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// Ensure LedgerService implements the interface.
var _ driving.LedgerService = (*LedgerService)(nil)

// LedgerService reads persisted ledgers without modifying them.
type LedgerService struct {
	openStore driven.LedgerStoreFactory
}

// NewLedgerService creates a new ledger query service.
func NewLedgerService(openStore driven.LedgerStoreFactory) *LedgerService {
	return &LedgerService{openStore: openStore}
}

// List returns the entries of the ledger at output that match filter,
// oldest first.
func (s *LedgerService) List(ctx context.Context, output string, filter driving.LedgerFilter) ([]domain.LedgerEntry, error) {
	ledger, err := s.load(ctx, output)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LedgerEntry, 0, ledger.Len())
	for _, entry := range ledger.Entries() {
		if filter.SourceID != "" && entry.Key.SourceID != filter.SourceID {
			continue
		}
		if filter.PersonName != "" && !strings.EqualFold(entry.Key.PersonName, strings.TrimSpace(filter.PersonName)) {
			continue
		}
		entries = append(entries, entry)
	}

	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[len(entries)-filter.Limit:]
	}
	return entries, nil
}

// Sources returns the distinct source identifiers in order of first appearance.
func (s *LedgerService) Sources(ctx context.Context, output string) ([]string, error) {
	ledger, err := s.load(ctx, output)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var sources []string
	for _, key := range ledger.Keys() {
		if _, ok := seen[key.SourceID]; ok {
			continue
		}
		seen[key.SourceID] = struct{}{}
		sources = append(sources, key.SourceID)
	}
	return sources, nil
}

func (s *LedgerService) load(ctx context.Context, output string) (*domain.Ledger, error) {
	if output == "" {
		output = domain.DefaultOutput
	}

	store, err := s.openStore(output)
	if err != nil {
		return nil, &domain.LoadError{Path: output, Err: err}
	}
	defer store.Close()

	ledger, err := store.Load(ctx)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &domain.LoadError{Path: output, Err: err}
	}
	return ledger, nil
}

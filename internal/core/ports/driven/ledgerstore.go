package driven

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// LedgerStore persists the ledger between runs.
type LedgerStore interface {
	// Load reads the persisted ledger. A store whose backing file does not
	// exist yields an empty ledger. A store that exists but cannot be read
	// returns a *domain.LoadError.
	Load(ctx context.Context) (*domain.Ledger, error)

	// Save writes every entry, in order, replacing what was stored before.
	// Failures are returned as *domain.SaveError.
	Save(ctx context.Context, ledger *domain.Ledger) error

	// Path returns the backing file path.
	Path() string

	// Close releases resources.
	Close() error
}

// LedgerStoreFactory opens the ledger store for an output path.
type LedgerStoreFactory func(path string) (LedgerStore, error)

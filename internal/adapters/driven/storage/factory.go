// Package storage provides factory functions for opening ledger stores.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/kith/internal/adapters/driven/storage/csvfile"
	"github.com/custodia-labs/kith/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// sqliteExtensions select the SQLite backend in auto mode.
var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// ResolveBackend returns the concrete backend for path.
// Auto picks SQLite for database extensions and CSV otherwise.
func ResolveBackend(path string, backend domain.LedgerBackend) domain.LedgerBackend {
	switch backend {
	case domain.LedgerBackendCSV, domain.LedgerBackendSQLite:
		return backend
	default:
		if sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
			return domain.LedgerBackendSQLite
		}
		return domain.LedgerBackendCSV
	}
}

// OpenLedgerStore opens the ledger store for path using the given backend.
func OpenLedgerStore(path string, backend domain.LedgerBackend) (driven.LedgerStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty ledger path", domain.ErrInvalidInput)
	}
	if backend != "" && !backend.IsValid() {
		return nil, fmt.Errorf("%w: unknown ledger backend %q", domain.ErrInvalidInput, backend)
	}

	switch ResolveBackend(path, backend) {
	case domain.LedgerBackendSQLite:
		return sqlite.NewStore(path)
	default:
		return csvfile.New(path), nil
	}
}

// NewLedgerStoreFactory returns a driven.LedgerStoreFactory bound to backend.
func NewLedgerStoreFactory(backend domain.LedgerBackend) driven.LedgerStoreFactory {
	return func(path string) (driven.LedgerStore, error) {
		return OpenLedgerStore(path, backend)
	}
}

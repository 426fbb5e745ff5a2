package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kith/internal/adapters/driven/storage/csvfile"
	"github.com/custodia-labs/kith/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kith/internal/core/domain"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		backend  domain.LedgerBackend
		expected domain.LedgerBackend
	}{
		{name: "csv by default", path: "results.csv", backend: domain.LedgerBackendAuto, expected: domain.LedgerBackendCSV},
		{name: "empty backend acts as auto", path: "out.db", backend: "", expected: domain.LedgerBackendSQLite},
		{name: "sqlite extension", path: "people.sqlite", backend: domain.LedgerBackendAuto, expected: domain.LedgerBackendSQLite},
		{name: "sqlite3 upper case", path: "PEOPLE.SQLITE3", backend: domain.LedgerBackendAuto, expected: domain.LedgerBackendSQLite},
		{name: "unknown extension", path: "ledger.txt", backend: domain.LedgerBackendAuto, expected: domain.LedgerBackendCSV},
		{name: "forced csv", path: "people.db", backend: domain.LedgerBackendCSV, expected: domain.LedgerBackendCSV},
		{name: "forced sqlite", path: "people.csv", backend: domain.LedgerBackendSQLite, expected: domain.LedgerBackendSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveBackend(tt.path, tt.backend))
		})
	}
}

func TestOpenLedgerStore_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	store, err := OpenLedgerStore(path, domain.LedgerBackendAuto)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &csvfile.Store{}, store)
	assert.Equal(t, path, store.Path())
}

func TestOpenLedgerStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := OpenLedgerStore(path, domain.LedgerBackendAuto)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &sqlite.Store{}, store)
}

func TestOpenLedgerStore_Invalid(t *testing.T) {
	_, err := OpenLedgerStore("", domain.LedgerBackendAuto)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = OpenLedgerStore("x.csv", domain.LedgerBackend("parquet"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewLedgerStoreFactory(t *testing.T) {
	factory := NewLedgerStoreFactory(domain.LedgerBackendCSV)

	store, err := factory(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &csvfile.Store{}, store)
}

// Package sqlite provides a SQLite-backed implementation of driven.LedgerStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It is selected when the ledger output
// path ends in .db, .sqlite or .sqlite3, or when ledger.backend is "sqlite".
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Entries live in ledger_entries, ordered by position; interests are stored
// with the same JSON encoding the CSV store uses.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Save replaces every row inside one transaction.
package sqlite

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/kith/internal/adapters/driven/storage/codec"
	"github.com/custodia-labs/kith/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// Verify interface compliance at compile time.
var _ driven.LedgerStore = (*Store)(nil)

// Store keeps the ledger in a SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and applies
// pending migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every entry ordered by position.
// Rows whose interests cannot be decoded load with no interests.
func (s *Store) Load(ctx context.Context) (*domain.Ledger, error) {
	defer logger.Elapsed("sqlite load", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, source_id, person_name, interests
		FROM ledger_entries ORDER BY position
	`)
	if err != nil {
		return nil, &domain.LoadError{Path: s.path, Err: fmt.Errorf("querying entries: %w", err)}
	}
	defer rows.Close()

	ledger := domain.NewLedger()
	for rows.Next() {
		var position int64
		var key domain.LedgerKey
		var raw sql.NullString
		if err := rows.Scan(&position, &key.SourceID, &key.PersonName, &raw); err != nil {
			return nil, &domain.LoadError{Path: s.path, Err: fmt.Errorf("scanning entry: %w", err)}
		}

		interests, err := codec.DecodeInterests(raw.String)
		if err != nil {
			logger.Warn("%s position %d: %v; loading %s with no interests", s.path, position, err, key)
		}
		ledger.Put(key, interests)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.LoadError{Path: s.path, Err: fmt.Errorf("iterating entries: %w", err)}
	}

	logger.Info("Loaded %d entries from %s", ledger.Len(), s.path)
	return ledger, nil
}

// Save replaces the stored entries with the ledger's, in order.
func (s *Store) Save(ctx context.Context, ledger *domain.Ledger) error {
	defer logger.Elapsed("sqlite save", time.Now())

	if err := s.replace(ctx, ledger); err != nil {
		return &domain.SaveError{Path: s.path, Err: err}
	}

	logger.Info("Saved %d entries to %s", ledger.Len(), s.path)
	return nil
}

func (s *Store) replace(ctx context.Context, ledger *domain.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_entries (position, source_id, person_name, interests)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range ledger.Entries() {
		interests, err := codec.EncodeInterests(entry.Interests)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i+1, entry.Key.SourceID, entry.Key.PersonName, interests); err != nil {
			return fmt.Errorf("inserting %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_ledger.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

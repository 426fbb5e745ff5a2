// Package csvfile provides a CSV-backed implementation of driven.LedgerStore.
//
// The file has a header row "filename,name,interests" and one row per entry,
// oldest first. Interests are stored as a sorted JSON array in a single
// field. Quoting follows RFC 4180.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/kith/internal/adapters/driven/storage/codec"
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// Column names of the persisted ledger, in write order.
const (
	ColumnSource    = "filename"
	ColumnName      = "name"
	ColumnInterests = "interests"
)

// Header is the header row written by Save.
var Header = []string{ColumnSource, ColumnName, ColumnInterests}

const utf8BOM = "\ufeff"

// Verify interface compliance at compile time.
var _ driven.LedgerStore = (*Store)(nil)

// Store reads and writes a ledger CSV file.
type Store struct {
	path string
}

// New creates a store for the CSV file at path. The file is not touched
// until Load or Save is called.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the CSV file path.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}

// Load reads the ledger. A missing or empty file yields an empty ledger.
// Rows whose interests cannot be decoded load with no interests.
func (s *Store) Load(ctx context.Context) (*domain.Ledger, error) {
	defer logger.Elapsed("csv load", time.Now())

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No ledger at %s, starting empty", s.path)
		return domain.NewLedger(), nil
	}
	if err != nil {
		return nil, &domain.LoadError{Path: s.path, Err: err}
	}
	defer f.Close()

	ledger, err := s.read(ctx, f)
	if err != nil {
		return nil, &domain.LoadError{Path: s.path, Err: err}
	}

	logger.Info("Loaded %d entries from %s", ledger.Len(), s.path)
	return ledger, nil
}

func (s *Store) read(ctx context.Context, r io.Reader) (*domain.Ledger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	ledger := domain.NewLedger()

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ledger, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		key := domain.LedgerKey{
			SourceID:   field(record, cols[ColumnSource]),
			PersonName: field(record, cols[ColumnName]),
		}

		interests, err := codec.DecodeInterests(field(record, cols[ColumnInterests]))
		if err != nil {
			line, _ := reader.FieldPos(0)
			logger.Warn("%s line %d: %v; loading %s with no interests", s.path, line, err, key)
		}

		ledger.Put(key, interests)
	}

	if err := ledger.Validate(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// columnIndexes locates the required columns by header name.
func columnIndexes(header []string) (map[string]int, error) {
	found := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := found[name]; !dup {
			found[name] = i
		}
	}

	cols := make(map[string]int, len(Header))
	for _, name := range Header {
		idx, ok := found[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingColumn, name)
		}
		cols[name] = idx
	}
	return cols, nil
}

// field returns record[i], or "" for a short row.
func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// Save writes the ledger to a temporary file next to the target and renames
// it into place, so a failed save leaves the previous file intact.
func (s *Store) Save(ctx context.Context, ledger *domain.Ledger) error {
	defer logger.Elapsed("csv save", time.Now())

	if err := s.write(ctx, ledger); err != nil {
		return &domain.SaveError{Path: s.path, Err: err}
	}

	logger.Info("Saved %d entries to %s", ledger.Len(), s.path)
	return nil
}

func (s *Store) write(ctx context.Context, ledger *domain.Ledger) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(ctx, tmp, ledger); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Encode writes the ledger as CSV to w, header first. CR line breaks in keys
// are written as LF, which is what a CSV reader returns for them.
func Encode(ctx context.Context, w io.Writer, ledger *domain.Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, entry := range ledger.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		interests, err := codec.EncodeInterests(entry.Interests)
		if err != nil {
			return err
		}
		row := []string{
			domain.FoldLineBreaks(entry.Key.SourceID),
			domain.FoldLineBreaks(entry.Key.PersonName),
			interests,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", entry.Key, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

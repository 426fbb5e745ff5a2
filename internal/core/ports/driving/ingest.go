package driving

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// IngestService extracts people and interests from files into a ledger.
type IngestService interface {
	// Ingest loads the ledger at output, processes every path, applies the
	// resulting facts in path order and saves the ledger once.
	// Per-file extraction and analysis failures are recorded in the report and
	// do not stop the batch. Load and save failures are returned as errors.
	Ingest(ctx context.Context, paths []string, output string) (*domain.IngestReport, error)
}

// WatchService ingests files as they appear in watched directories.
type WatchService interface {
	// Watch blocks until ctx is cancelled, ingesting each batch of new files
	// into output. onReport is called after every batch and may be nil.
	Watch(ctx context.Context, dirs []string, output string, onReport func(*domain.IngestReport)) error
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
	"github.com/custodia-labs/kith/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatchService ingests batches of new or modified files reported by a watcher.
// Each batch is one ingest run: one load, one ordered apply and one save.
type WatchService struct {
	watcher driven.FileWatcher
	ingest  driving.IngestService
}

// NewWatchService creates a new watch service.
func NewWatchService(watcher driven.FileWatcher, ingest driving.IngestService) *WatchService {
	return &WatchService{
		watcher: watcher,
		ingest:  ingest,
	}
}

// Watch blocks until ctx is cancelled or a batch fails to load or save.
// Cancellation is not an error.
func (s *WatchService) Watch(
	ctx context.Context,
	dirs []string,
	output string,
	onReport func(*domain.IngestReport),
) error {
	defer s.watcher.Close()

	batches, err := s.watcher.Watch(ctx, dirs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	logger.Info("Watching %d directories, writing to %s", len(dirs), output)

	for batch := range batches {
		logger.Debug("Batch of %d files", len(batch))

		report, err := s.ingest.Ingest(ctx, batch, output)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if onReport != nil {
			onReport(report)
		}
	}

	return nil
}

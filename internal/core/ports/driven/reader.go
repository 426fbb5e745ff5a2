package driven

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// DocumentReader reads an input file into a raw document.
type DocumentReader interface {
	// Read loads the file at path. The returned document carries the path as
	// URI, the base name as SourceID and a MIME type guessed from the extension.
	Read(ctx context.Context, path string) (*domain.RawDocument, error)
}

// FileWatcher reports files created or modified under watched directories.
type FileWatcher interface {
	// Watch starts watching the given directories. Each value received on the
	// returned channel is a debounced batch of distinct file paths in the order
	// they were first seen. The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, dirs []string) (<-chan []string, error)

	// Close releases resources.
	Close() error
}

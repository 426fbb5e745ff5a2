package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// DefaultDebounce is how long the watcher waits for quiet before emitting a batch.
const DefaultDebounce = 500 * time.Millisecond

// Watcher batches created or written files under a set of directories.
type Watcher struct {
	supports func(path string) bool
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// NewWatcher creates a watcher that reports files accepted by supports.
// A nil supports accepts every file. A non-positive debounce uses DefaultDebounce.
func NewWatcher(supports func(path string) bool, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{supports: supports, debounce: debounce}
}

// Watch starts watching dirs and their non-hidden subdirectories.
func (w *Watcher) Watch(ctx context.Context, dirs []string) (<-chan []string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errors.New("watcher closed")
	}
	if w.watcher != nil {
		return nil, errors.New("watcher already running")
	}
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, dir := range dirs {
		dir = ResolvePath(dir)
		info, err := os.Stat(dir)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("root path error: %w", err)
		}
		if !info.IsDir() {
			fsw.Close()
			return nil, fmt.Errorf("root path error: %s is not a directory", dir)
		}
		if err := addRecursive(fsw, dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.watcher = fsw
	batches := make(chan []string)
	go w.run(ctx, fsw, batches)
	return batches, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)

	var (
		pending []string
		seen    = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)

	flush := func() bool {
		if len(pending) == 0 {
			return true
		}
		batch := pending
		pending = nil
		seen = make(map[string]bool)
		select {
		case out <- batch:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				flush()
				return
			}
			path := w.handleFsEvent(fsw, event)
			if path == "" || seen[path] {
				continue
			}
			seen[path] = true
			pending = append(pending, path)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !flush() {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				flush()
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleFsEvent returns the file path an event reports, or "" when it
// should be ignored. New directories are added to the watch.
func (w *Watcher) handleFsEvent(fsw *fsnotify.Watcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if isHidden(filepath.Base(event.Name)) {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := addRecursive(fsw, event.Name); err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
		}
		return ""
	}

	if w.supports != nil && !w.supports(event.Name) {
		logger.Debug("watch: ignoring unsupported file %s", event.Name)
		return ""
	}
	return event.Name
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

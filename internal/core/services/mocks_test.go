package services

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// fakeSource returns canned documents keyed by path.
type fakeSource struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeSource) Extract(_ context.Context, path string) (*domain.Document, error) {
	if err, ok := f.errs[path]; ok {
		return nil, &domain.ExtractError{Path: path, Err: err}
	}
	text, ok := f.texts[path]
	if !ok {
		return nil, &domain.ExtractError{Path: path, Err: domain.ErrNotFound}
	}
	return &domain.Document{
		ID:       path,
		SourceID: filepath.Base(path),
		URI:      path,
		Content:  text,
	}, nil
}

// mockFactExtractor answers with canned facts keyed by text.
type mockFactExtractor struct {
	facts map[string][]domain.Fact
	errs   map[string]error
	delay  time.Duration
	delays map[string]time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	texts []string
}

func (m *mockFactExtractor) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	delay := m.delay
	if d, ok := m.delays[text]; ok {
		delay = d
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.errs[text]; ok {
		return nil, err
	}
	return m.facts[text], nil
}

func (m *mockFactExtractor) seenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

func (m *mockFactExtractor) ModelName() string { return "mock" }

func (m *mockFactExtractor) Ping(_ context.Context) error { return nil }

func (m *mockFactExtractor) Close() error { return nil }

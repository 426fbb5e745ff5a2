package ai

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// mockExtractor records calls and returns canned facts.
type mockExtractor struct {
	mu     sync.Mutex
	facts  []domain.Fact
	err    error
	delay  time.Duration
	calls  atomic.Int32
	texts  []string
	closed bool
}

func (m *mockExtractor) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.facts, nil
}

func (m *mockExtractor) ModelName() string { return "mock-model" }

func (m *mockExtractor) Ping(context.Context) error { return m.err }

func (m *mockExtractor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// Ensure Cached implements the interface.
var _ driven.FactExtractor = (*Cached)(nil)

// Cached remembers the facts extracted from recent texts. Identical texts
// analysed concurrently share one call. Failures are not cached.
type Cached struct {
	next  driven.FactExtractor
	cache *lru.Cache[string, []domain.Fact]
	group singleflight.Group
}

// NewCached wraps next with an LRU cache holding up to size texts.
func NewCached(next driven.FactExtractor, size int) (*Cached, error) {
	cache, err := lru.New[string, []domain.Fact](size)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Extract returns cached facts for text or calls the wrapped extractor.
// Concurrent calls for the same text share one request. The shared request
// ignores cancellation of any one caller; each caller stops waiting when its
// own ctx is done.
func (c *Cached) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	key := cacheKey(text)
	if facts, ok := c.cache.Get(key); ok {
		logger.Debug("analysis cache hit %s", key[:12])
		return cloneFacts(facts), nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		facts, err := c.next.Extract(shared, text)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, cloneFacts(facts))
		return facts, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneFacts(res.Val.([]domain.Fact)), nil
	}
}

// Len returns the number of cached texts.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// ModelName returns the wrapped extractor's model name.
func (c *Cached) ModelName() string {
	return c.next.ModelName()
}

// Ping pings the wrapped extractor.
func (c *Cached) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Close purges the cache and closes the wrapped extractor.
func (c *Cached) Close() error {
	c.cache.Purge()
	return c.next.Close()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneFacts(facts []domain.Fact) []domain.Fact {
	if facts == nil {
		return nil
	}
	out := make([]domain.Fact, len(facts))
	for i, f := range facts {
		out[i] = domain.Fact{
			PersonName: f.PersonName,
			Interests:  append([]string(nil), f.Interests...),
		}
	}
	return out
}

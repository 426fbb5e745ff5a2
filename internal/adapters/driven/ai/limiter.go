package ai

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// Ensure Limited implements the interface.
var _ driven.FactExtractor = (*Limited)(nil)

// Limited throttles Extract calls with a token bucket shared by all callers.
type Limited struct {
	next    driven.FactExtractor
	limiter *rate.Limiter
}

// NewLimited wraps next so Extract runs at most requestsPerSecond times per
// second on average. The burst is the rate rounded up, at least 1.
func NewLimited(next driven.FactExtractor, requestsPerSecond float64) *Limited {
	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Extract waits for a token, then calls the wrapped extractor.
func (l *Limited) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Extract(ctx, text)
}

// ModelName returns the wrapped extractor's model name.
func (l *Limited) ModelName() string {
	return l.next.ModelName()
}

// Ping pings the wrapped extractor without consuming a token.
func (l *Limited) Ping(ctx context.Context) error {
	return l.next.Ping(ctx)
}

// Close closes the wrapped extractor.
func (l *Limited) Close() error {
	return l.next.Close()
}

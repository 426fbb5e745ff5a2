package driven

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// FactExtractor asks the remote analysis service which people a text mentions
// and what each of them is interested in.
//
// Implementations include:
//   - chat: an OpenAI-compatible chat completion endpoint (DeepSeek by default)
//   - analyze: a single-object POST /analyze endpoint
type FactExtractor interface {
	// Extract returns the people found in text. An empty result is not an error.
	// Transport failures, non-success statuses and undecodable bodies are
	// returned as errors.
	Extract(ctx context.Context, text string) ([]domain.Fact, error)

	// ModelName returns the name of the model or endpoint being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Package ai builds the FactExtractor used by ingest from analysis settings,
// layering caching and rate limiting over the provider adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kith/internal/adapters/driven/llm/analyze"
	"github.com/custodia-labs/kith/internal/adapters/driven/llm/chat"
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateFactExtractor creates the extractor for the configured provider.
// Prompts come from store when it is non-nil. The result is rate limited
// when RequestsPerSecond > 0 and cached when CacheSize > 0.
func CreateFactExtractor(settings *domain.AnalysisSettings, store driven.PromptStore) (driven.FactExtractor, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no analysis settings", domain.ErrAnalysisUnavailable)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported analysis provider: %s", settings.Provider)
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is not set (use DEEPSEEK_API_KEY, KITH_API_KEY or 'kith settings analysis --api-key')",
			domain.ErrAnalysisUnavailable)
	}

	base, err := createProvider(settings)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if aware, ok := base.(driven.PromptStoreAware); ok {
			aware.SetPromptStore(store)
		}
	}

	extractor := base
	if settings.RequestsPerSecond > 0 {
		extractor = NewLimited(extractor, settings.RequestsPerSecond)
	}
	if settings.CacheSize > 0 {
		extractor, err = NewCached(extractor, settings.CacheSize)
		if err != nil {
			base.Close()
			return nil, err
		}
	}
	return extractor, nil
}

// ValidateAnalysisConfig creates an extractor and pings it.
// Settings without an API key have nothing to validate.
func ValidateAnalysisConfig(settings *domain.AnalysisSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := createProvider(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

func createProvider(settings *domain.AnalysisSettings) (driven.FactExtractor, error) {
	switch settings.Provider {
	case domain.AnalysisProviderChat:
		return chat.New(chat.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    settings.Timeout,
			MaxRetries: chat.DefaultMaxRetries,
		})

	case domain.AnalysisProviderAnalyze:
		return analyze.New(analyze.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", settings.Provider)
	}
}

package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAnalysisProvider = "analysis.provider"
	keyAnalysisBaseURL  = "analysis.base_url"
	keyAnalysisModel    = "analysis.model"
	keyAnalysisAPIKey   = "analysis.api_key"
	keyAnalysisTimeout  = "analysis.timeout_seconds"
	keyAnalysisRPS      = "analysis.requests_per_second"
	keyAnalysisCache    = "analysis.cache_size"
	keyConcurrency      = "ingest.concurrency"
	keyChunkSize        = "ingest.chunk_size"
	keyChunkOverlap     = "ingest.chunk_overlap"
	keyOutput           = "ingest.output"
	keyPDFToText        = "extract.pdftotext"
	keyLedgerBackend    = "ledger.backend"
)

// APIKeyEnvVars are consulted in order when the config holds no API key.
var APIKeyEnvVars = []string{"DEEPSEEK_API_KEY", "KITH_API_KEY"}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.AnalysisValidator
	getenv      func(string) string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.Getenv for API key lookup.
func WithEnvLookup(getenv func(string) string) SettingsOption {
	return func(s *SettingsService) {
		if getenv != nil {
			s.getenv = getenv
		}
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	validator driven.AnalysisValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		validator:   validator,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
// The API key falls back to the environment when the config has none.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Analysis.Provider)
	baseURL := s.getString(keyAnalysisBaseURL, domain.DefaultBaseURLs()[provider])
	model := s.configStore.GetString(keyAnalysisModel)
	if model == "" && provider == domain.AnalysisProviderChat {
		model = domain.DefaultChatModel
	}

	apiKey := s.configStore.GetString(keyAnalysisAPIKey)
	if apiKey == "" {
		apiKey = s.envAPIKey()
	}

	timeout := defaults.Analysis.Timeout
	if secs := s.configStore.GetInt(keyAnalysisTimeout); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	settings := &domain.AppSettings{
		Analysis: domain.AnalysisSettings{
			Provider:          provider,
			BaseURL:           baseURL,
			Model:             model,
			APIKey:            apiKey,
			Timeout:           timeout,
			RequestsPerSecond: s.getFloat(keyAnalysisRPS, defaults.Analysis.RequestsPerSecond),
			CacheSize:         s.getIntOrZero(keyAnalysisCache, defaults.Analysis.CacheSize),
		},
		Ingest: domain.IngestSettings{
			Concurrency:  s.getInt(keyConcurrency, defaults.Ingest.Concurrency),
			ChunkSize:    s.getIntOrZero(keyChunkSize, defaults.Ingest.ChunkSize),
			ChunkOverlap: s.getIntOrZero(keyChunkOverlap, defaults.Ingest.ChunkOverlap),
			Output:       s.getString(keyOutput, defaults.Ingest.Output),
		},
		Extract: domain.ExtractSettings{
			PreferPDFToText: s.getBool(keyPDFToText, defaults.Extract.PreferPDFToText),
		},
		Ledger: domain.LedgerSettings{
			Backend: s.getBackend(defaults.Ledger.Backend),
		},
	}

	return settings, nil
}

// Save persists application settings.
// An API key that only came from the environment is not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyAnalysisProvider, settings.Analysis.Provider.String()},
		{keyAnalysisBaseURL, settings.Analysis.BaseURL},
		{keyAnalysisModel, settings.Analysis.Model},
		{keyAnalysisTimeout, int(settings.Analysis.Timeout / time.Second)},
		{keyAnalysisRPS, settings.Analysis.RequestsPerSecond},
		{keyAnalysisCache, settings.Analysis.CacheSize},
		{keyConcurrency, settings.Ingest.Concurrency},
		{keyChunkSize, settings.Ingest.ChunkSize},
		{keyChunkOverlap, settings.Ingest.ChunkOverlap},
		{keyOutput, settings.Ingest.Output},
		{keyPDFToText, settings.Extract.PreferPDFToText},
		{keyLedgerBackend, settings.Ledger.Backend.String()},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.Analysis.APIKey; key != "" && key != s.envAPIKey() {
		if err := s.configStore.Set(keyAnalysisAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyAnalysisAPIKey, err)
		}
	}

	return nil
}

// SetAnalysis configures the analysis service. An empty apiKey keeps the
// stored key.
func (s *SettingsService) SetAnalysis(provider domain.AnalysisProvider, baseURL, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid analysis provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Analysis.Provider = provider

	// Set base URL - use provided or provider default
	if baseURL != "" {
		settings.Analysis.BaseURL = baseURL
	} else {
		settings.Analysis.BaseURL = domain.DefaultBaseURLs()[provider]
	}

	// Set model - use provided or default
	switch {
	case model != "":
		settings.Analysis.Model = model
	case provider == domain.AnalysisProviderChat:
		settings.Analysis.Model = domain.DefaultChatModel
	default:
		settings.Analysis.Model = ""
	}

	if apiKey != "" {
		settings.Analysis.APIKey = apiKey
	}

	return s.Save(settings)
}

// SetIngest configures orchestration. An empty output keeps the stored path.
func (s *SettingsService) SetIngest(concurrency, chunkSize, chunkOverlap int, output string) error {
	if chunkSize < 0 || chunkOverlap < 0 {
		return fmt.Errorf("%w: chunk size and overlap must not be negative", domain.ErrInvalidInput)
	}
	if chunkSize > 0 && chunkOverlap >= chunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, chunkOverlap, chunkSize)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if concurrency <= 0 {
		concurrency = domain.DefaultConcurrency
	}
	settings.Ingest.Concurrency = concurrency
	settings.Ingest.ChunkSize = chunkSize
	settings.Ingest.ChunkOverlap = chunkOverlap
	if output != "" {
		settings.Ingest.Output = output
	}

	return s.Save(settings)
}

// Validate checks that current settings are complete enough to ingest.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Analysis.Provider.IsValid() {
		return fmt.Errorf("invalid analysis provider: %s", settings.Analysis.Provider)
	}
	if settings.Analysis.APIKey == "" {
		return fmt.Errorf("%w: no API key configured; set %s or run 'kith settings analysis --api-key'",
			domain.ErrAnalysisUnavailable, APIKeyEnvVars[0])
	}
	if settings.Analysis.BaseURL == "" {
		return fmt.Errorf("analysis base URL is empty")
	}
	if settings.Ingest.Concurrency < 1 {
		return fmt.Errorf("ingest concurrency must be at least 1, got %d", settings.Ingest.Concurrency)
	}
	if settings.Ingest.ChunkSize > 0 && settings.Ingest.ChunkOverlap >= settings.Ingest.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d",
			settings.Ingest.ChunkOverlap, settings.Ingest.ChunkSize)
	}
	if !settings.Ledger.Backend.IsValid() {
		return fmt.Errorf("invalid ledger backend: %s", settings.Ledger.Backend)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateAnalysisConfig validates the current analysis configuration by pinging the service.
func (s *SettingsService) ValidateAnalysisConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateAnalysis(&settings.Analysis)
}

func (s *SettingsService) envAPIKey() string {
	for _, name := range APIKeyEnvVars {
		if v := s.getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntOrZero is like getInt but keeps an explicitly stored zero.
func (s *SettingsService) getIntOrZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AnalysisProvider) domain.AnalysisProvider {
	provider := domain.AnalysisProvider(s.configStore.GetString(keyAnalysisProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.LedgerBackend) domain.LedgerBackend {
	backend := domain.LedgerBackend(s.configStore.GetString(keyLedgerBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

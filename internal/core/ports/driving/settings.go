package driving

import "github.com/custodia-labs/kith/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAnalysis configures the analysis service. Empty baseURL and model
	// select the provider defaults.
	SetAnalysis(provider domain.AnalysisProvider, baseURL, model, apiKey string) error

	// SetIngest configures orchestration. Non-positive concurrency selects the default.
	SetIngest(concurrency, chunkSize, chunkOverlap int, output string) error

	// Validate checks if current settings are complete enough to ingest.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateAnalysisConfig validates the current analysis configuration by pinging the service.
	ValidateAnalysisConfig() error
}

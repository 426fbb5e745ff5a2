package domain

import "time"

const unknownDescription = "Unknown"

// AnalysisProvider identifies how the remote analysis service is called.
type AnalysisProvider string

// Available analysis providers.
const (
	// AnalysisProviderChat calls an OpenAI-compatible chat completion endpoint
	// and expects a JSON array of people, possibly wrapped in prose.
	AnalysisProviderChat AnalysisProvider = "chat"

	// AnalysisProviderAnalyze calls a single-object analyze endpoint that
	// returns one {"name","interests"} record per document.
	AnalysisProviderAnalyze AnalysisProvider = "analyze"
)

// IsValid returns true if the provider is recognised.
func (p AnalysisProvider) IsValid() bool {
	switch p {
	case AnalysisProviderChat, AnalysisProviderAnalyze:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AnalysisProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AnalysisProvider) Description() string {
	switch p {
	case AnalysisProviderChat:
		return "Chat completion (JSON array of people)"
	case AnalysisProviderAnalyze:
		return "Analyze endpoint (single person per document)"
	default:
		return unknownDescription
	}
}

// LedgerBackend selects how the ledger is persisted.
type LedgerBackend string

// Available ledger backends.
const (
	// LedgerBackendAuto picks SQLite for .db/.sqlite paths and CSV otherwise.
	LedgerBackendAuto LedgerBackend = "auto"

	// LedgerBackendCSV stores the ledger as a CSV file.
	LedgerBackendCSV LedgerBackend = "csv"

	// LedgerBackendSQLite stores the ledger in a SQLite database.
	LedgerBackendSQLite LedgerBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b LedgerBackend) IsValid() bool {
	switch b {
	case LedgerBackendAuto, LedgerBackendCSV, LedgerBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b LedgerBackend) String() string {
	return string(b)
}

// AnalysisSettings holds remote analysis service configuration.
type AnalysisSettings struct {
	// Provider selects the request/response shape.
	Provider AnalysisProvider

	// BaseURL is the API endpoint root.
	BaseURL string

	// Model is the model name (chat provider only).
	Model string

	// APIKey is the bearer token.
	APIKey string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond throttles calls across concurrent files. Zero disables throttling.
	RequestsPerSecond float64

	// CacheSize is the number of analysed texts remembered per run. Zero disables caching.
	CacheSize int
}

// IsConfigured returns true if the analysis service can be called.
func (a AnalysisSettings) IsConfigured() bool {
	return a.Provider.IsValid() && a.APIKey != ""
}

// IngestSettings holds orchestration configuration.
type IngestSettings struct {
	// Concurrency is the number of files extracted and analysed at once.
	Concurrency int

	// ChunkSize splits long texts into pieces of at most this many characters
	// before analysis. Zero sends each document whole.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	ChunkOverlap int

	// Output is the default ledger path.
	Output string
}

// ExtractSettings holds text extraction configuration.
type ExtractSettings struct {
	// PreferPDFToText uses the poppler pdftotext binary for PDFs when installed.
	PreferPDFToText bool
}

// LedgerSettings holds persistence configuration.
type LedgerSettings struct {
	// Backend selects the persisted format.
	Backend LedgerBackend
}

// AppSettings holds all application settings.
type AppSettings struct {
	Analysis AnalysisSettings
	Ingest   IngestSettings
	Extract  ExtractSettings
	Ledger   LedgerSettings
}

// Default values shared by settings and adapters.
const (
	DefaultChatBaseURL       = "https://api.deepseek.com/v1"
	DefaultChatModel         = "deepseek-chat"
	DefaultAnalyzeBaseURL    = "https://api.deepseek.ai/v1"
	DefaultAnalysisTimeout   = 120 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultCacheSize         = 128
	DefaultConcurrency       = 4
	DefaultChunkOverlap      = 200
	DefaultOutput            = "results.csv"
)

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Analysis: AnalysisSettings{
			Provider:          AnalysisProviderChat,
			BaseURL:           DefaultChatBaseURL,
			Model:             DefaultChatModel,
			Timeout:           DefaultAnalysisTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			CacheSize:         DefaultCacheSize,
		},
		Ingest: IngestSettings{
			Concurrency:  DefaultConcurrency,
			ChunkSize:    0,
			ChunkOverlap: DefaultChunkOverlap,
			Output:       DefaultOutput,
		},
		Extract: ExtractSettings{
			PreferPDFToText: false,
		},
		Ledger: LedgerSettings{
			Backend: LedgerBackendAuto,
		},
	}
}

// DefaultBaseURLs returns the default endpoint for each analysis provider.
func DefaultBaseURLs() map[AnalysisProvider]string {
	return map[AnalysisProvider]string{
		AnalysisProviderChat:    DefaultChatBaseURL,
		AnalysisProviderAnalyze: DefaultAnalyzeBaseURL,
	}
}

// AllAnalysisProviders returns all available analysis providers.
func AllAnalysisProviders() []AnalysisProvider {
	return []AnalysisProvider{
		AnalysisProviderChat,
		AnalysisProviderAnalyze,
	}
}

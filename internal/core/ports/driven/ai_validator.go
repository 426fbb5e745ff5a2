package driven

import "github.com/custodia-labs/kith/internal/core/domain"

// AnalysisValidator validates analysis service configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying service.
type AnalysisValidator interface {
	// ValidateAnalysis validates an analysis configuration by pinging the service.
	// Returns nil if configuration is valid or not configured.
	ValidateAnalysis(config *domain.AnalysisSettings) error
}

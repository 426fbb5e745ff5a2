package ai

import (
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AnalysisValidator = (*ConfigValidator)(nil)

// ConfigValidator validates analysis provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new analysis config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateAnalysis validates an analysis configuration by pinging the provider.
func (v *ConfigValidator) ValidateAnalysis(config *domain.AnalysisSettings) error {
	return ValidateAnalysisConfig(config)
}

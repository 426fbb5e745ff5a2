package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AnalysisValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateAnalysis_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	// nil config returns nil (nothing to validate)
	assert.NoError(t, validator.ValidateAnalysis(nil))
}

func TestConfigValidator_ValidateAnalysis_NoAPIKey(t *testing.T) {
	validator := NewConfigValidator()
	config := &domain.AnalysisSettings{
		Provider: domain.AnalysisProviderChat,
		Model:    "deepseek-chat",
	}

	assert.NoError(t, validator.ValidateAnalysis(config))
}

func TestConfigValidator_ValidateAnalysis_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	validator := NewConfigValidator()
	err := validator.ValidateAnalysis(&domain.AnalysisSettings{
		Provider: domain.AnalysisProviderAnalyze,
		BaseURL:  server.URL,
		APIKey:   "k",
	})

	assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrPreviewNotFound", ErrPreviewNotFound},
		{"ErrMalformedResponse", ErrMalformedResponse},
		{"ErrAnalysisUnavailable", ErrAnalysisUnavailable},
		{"ErrMissingColumn", ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestBoundaryErrors_Unwrap(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"load", &LoadError{Path: "results.csv", Err: cause}, "load ledger results.csv: disk on fire"},
		{"save", &SaveError{Path: "results.csv", Err: cause}, "save ledger results.csv: disk on fire"},
		{"extract", &ExtractError{Path: "a.pdf", Err: cause}, "extract a.pdf: disk on fire"},
		{"analysis", &AnalysisError{Path: "a.pdf", Err: cause}, "analyse a.pdf: disk on fire"},
		{"analysis without path", &AnalysisError{Err: cause}, "analyse: disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestBoundaryErrors_As(t *testing.T) {
	wrapped := fmt.Errorf("ingest: %w", &LoadError{Path: "x.csv", Err: ErrMissingColumn})

	var loadErr *LoadError
	assert.True(t, errors.As(wrapped, &loadErr))
	assert.Equal(t, "x.csv", loadErr.Path)
	assert.ErrorIs(t, wrapped, ErrMissingColumn)

	var saveErr *SaveError
	assert.False(t, errors.As(wrapped, &saveErr))
}

func TestExtractError_WrapsUnsupportedType(t *testing.T) {
	err := &ExtractError{Path: "notes.rtf", Err: ErrUnsupportedType}
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "notes.rtf")
}

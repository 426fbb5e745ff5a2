package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a file extension no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrPreviewNotFound indicates a page-layout container has no embedded
	// QuickLook PDF preview to recover text from.
	ErrPreviewNotFound = errors.New("no QuickLook preview PDF in container")

	// ErrMalformedResponse indicates the analysis service returned content
	// that could not be decoded as people records, even after recovery.
	ErrMalformedResponse = errors.New("malformed analysis response")

	// ErrAnalysisUnavailable indicates the analysis service is not configured.
	ErrAnalysisUnavailable = errors.New("analysis service unavailable")

	// ErrMissingColumn indicates a persisted ledger lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// LoadError reports a persisted ledger that exists but cannot be read.
// It is fatal for the run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load ledger %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a ledger that could not be persisted.
// It is fatal for the run: all in-memory progress is at stake.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save ledger %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// ExtractError reports a file whose text could not be obtained.
// The file is skipped and the batch continues.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// AnalysisError reports a failed or unparseable analysis call.
// The file is skipped and the batch continues.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("analyse: %v", e.Err)
	}
	return fmt.Sprintf("analyse %s: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

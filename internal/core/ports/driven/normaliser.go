package driven

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// Normaliser recovers plain text from raw document bytes.
// Each normaliser handles specific file extensions (e.g., .pdf, .docx).
type Normaliser interface {
	// SupportedExtensions returns the lower-case file extensions, with the
	// leading dot, this normaliser handles.
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document with its text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}

package driven

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches
// on the file extension of the document URI, then on MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching normaliser.
	// Returns domain.ErrUnsupportedType when no normaliser matches.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether a path has an extension some normaliser handles.
	// It inspects the name only and never touches the filesystem.
	Supports(path string) bool

	// SupportedExtensions returns all extensions that can be normalised, sorted.
	SupportedExtensions() []string
}

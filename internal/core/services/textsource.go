package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// TextSource turns an input path into a document holding its plain text.
type TextSource struct {
	reader   driven.DocumentReader
	registry driven.NormaliserRegistry
}

// NewTextSource creates a text source that reads files with reader and
// recovers their text with the normalisers in registry.
func NewTextSource(reader driven.DocumentReader, registry driven.NormaliserRegistry) *TextSource {
	return &TextSource{
		reader:   reader,
		registry: registry,
	}
}

// Supports reports whether path has an extension that can be extracted.
func (s *TextSource) Supports(path string) bool {
	return s.registry.Supports(path)
}

// Extract returns the document text for path.
// The extension is checked before the file is opened. Every failure is
// returned as a *domain.ExtractError.
func (s *TextSource) Extract(ctx context.Context, path string) (*domain.Document, error) {
	if !s.registry.Supports(path) {
		return nil, &domain.ExtractError{
			Path: path,
			Err:  fmt.Errorf("%w: %q", domain.ErrUnsupportedType, filepath.Ext(path)),
		}
	}

	raw, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, &domain.ExtractError{Path: path, Err: err}
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, &domain.ExtractError{Path: path, Err: err}
	}

	logger.Debug("Extracted %d bytes of text from %s", len(result.Document.Content), path)
	return &result.Document, nil
}

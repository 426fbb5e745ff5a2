// Package pages provides the normaliser for Apple Pages (.pages) documents.
//
// A .pages file is a zip container. Its text is recovered from the PDF
// preview stored under QuickLook/, which is handed to a PDF text extractor.
package pages

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/normalisers/pdf"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const previewDir = "QuickLook/"

// PDFTextExtractor extracts text from an in-memory PDF.
type PDFTextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// Normaliser handles Pages documents.
type Normaliser struct {
	pdf PDFTextExtractor
}

// New creates a Pages normaliser that reads previews with the built-in PDF normaliser.
func New() *Normaliser {
	return NewWithExtractor(pdf.New())
}

// NewWithExtractor creates a Pages normaliser that reads previews with extractor.
func NewWithExtractor(extractor PDFTextExtractor) *Normaliser {
	return &Normaliser{pdf: extractor}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pages"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/vnd.apple.pages", "application/x-iwork-pages-sffpages"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise converts a Pages document to a normalised document.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a pages container: %v", domain.ErrInvalidInput, err)
	}

	preview, name, err := readPreview(reader)
	if err != nil {
		return nil, err
	}

	content, err := n.pdf.ExtractText(ctx, preview)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		SourceID:  raw.SourceID,
		URI:       raw.URI,
		Title:     extractTitle(raw.URI),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pages"
	doc.Metadata["preview"] = name

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// readPreview returns the first QuickLook PDF in archive order.
func readPreview(reader *zip.Reader) ([]byte, string, error) {
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, previewDir) || !strings.HasSuffix(file.Name, ".pdf") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, "", fmt.Errorf("%w: opening %s: %v", domain.ErrInvalidInput, file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, file.Name, err)
		}
		return content, file.Name, nil
	}
	return nil, "", domain.ErrPreviewNotFound
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Package pdf provides the normaliser for PDF documents.
//
// Text is extracted in-process with github.com/ledongthuc/pdf. When the
// poppler pdftotext binary is installed and preferred in settings, it is
// used instead, since it copes better with complex layouts.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	// pdfToTextBinary is the poppler command used when preferred.
	pdfToTextBinary = "pdftotext"

	// pageSeparator joins the text of consecutive pages.
	pageSeparator = "\n\n"

	// maxTitleLength bounds the first-line title heuristic.
	maxTitleLength = 200
)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner       CommandRunner
	usePDFToText bool
}

// New creates a PDF normaliser that extracts text in-process.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithPDFToText creates a PDF normaliser that prefers pdftotext when it is
// installed and falls back to in-process extraction otherwise.
func NewWithPDFToText() *Normaliser {
	return &Normaliser{runner: execRunner{}, usePDFToText: true}
}

// NewWithRunner creates a PDF normaliser that shells out through runner.
// Used by tests to stub pdftotext.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner, usePDFToText: true}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdfToTextBinary); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext on common platforms.
func InstallInstructions() string {
	return `pdftotext is part of poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise converts a PDF document to a normalised document.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, pages, err := n.extract(ctx, raw.Content)
	if err != nil {
		return nil, err
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		SourceID:  raw.SourceID,
		URI:       raw.URI,
		Title:     extractTitle(content, raw.URI),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	if pages > 0 {
		doc.Metadata["pages"] = pages
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// ExtractText returns the text of a PDF held in memory.
func (n *Normaliser) ExtractText(ctx context.Context, content []byte) (string, error) {
	text, _, err := n.extract(ctx, content)
	return text, err
}

func (n *Normaliser) extract(ctx context.Context, content []byte) (string, int, error) {
	if n.usePDFToText {
		if err := CheckAvailable(); err == nil {
			text, err := n.extractWithPDFToText(ctx, content)
			return text, 0, err
		}
		logger.Debug("pdftotext not installed, using built-in PDF extraction")
	}
	return extractWithLibrary(content)
}

// extractWithPDFToText writes content to a temp file and runs pdftotext on it.
func (n *Normaliser) extractWithPDFToText(ctx context.Context, content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "kith-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, pdfToTextBinary, "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// extractWithLibrary extracts page texts with ledongthuc/pdf.
// The library panics on some malformed files; that is reported as invalid input.
func extractWithLibrary(content []byte) (text string, pages int, err error) {
	if len(content) == 0 {
		return "", 0, fmt.Errorf("%w: empty PDF content", domain.ErrInvalidInput)
	}

	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: unreadable PDF: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}

	var sb strings.Builder
	pages = reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("Skipping unreadable PDF page %d: %v", i, err)
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(pageSeparator)
		}
		sb.WriteString(pageText)
	}

	return sb.String(), pages, nil
}

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLength {
			continue
		}
		return line
	}

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

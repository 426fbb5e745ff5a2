package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/normalisers/docx"
	"github.com/custodia-labs/kith/internal/normalisers/pages"
	"github.com/custodia-labs/kith/internal/normalisers/pdf"
	"github.com/custodia-labs/kith/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry holds normalisers ordered by priority.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with every built-in normaliser.
// When usePDFToText is set and pdftotext is installed, PDFs are read with it.
func NewDefaultRegistry(usePDFToText bool) *Registry {
	pdfNormaliser := pdf.New()
	if usePDFToText && pdf.CheckAvailable() == nil {
		pdfNormaliser = pdf.NewWithPDFToText()
	}

	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(docx.New())
	r.Register(pdfNormaliser)
	r.Register(pages.NewWithExtractor(pdfNormaliser))
	return r
}

// Register adds a normaliser. Higher priority normalisers are tried first;
// ties keep registration order.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise transforms a raw document with the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(raw.URI, raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.URI)
	}
	return n.Normalise(ctx, raw)
}

// Supports reports whether the path's extension is handled.
func (r *Registry) Supports(path string) bool {
	return r.lookup(path, "") != nil
}

// SupportedExtensions returns every handled extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var exts []string
	for _, n := range r.normalisers {
		for _, ext := range n.SupportedExtensions() {
			ext = strings.ToLower(ext)
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(uri, mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(uri))
	if ext != "" {
		for _, n := range r.normalisers {
			for _, e := range n.SupportedExtensions() {
				if strings.EqualFold(e, ext) {
					return n
				}
			}
		}
	}

	if mimeType == "" {
		return nil
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}

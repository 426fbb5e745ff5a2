// Package chunker splits long document text into overlapping pieces so each
// analysis request stays within the service's input limits.
package chunker

import (
	"context"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 8000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into chunks of at most chunkSize
// characters (runes). A chunk ends at the last whitespace in its final fifth
// when there is one, so words are not cut in half.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split returns the chunk texts for content in order.
func (p *Processor) Split(content string) []string {
	runes := []rune(content)
	total := len(runes)
	if total == 0 {
		return nil
	}

	var parts []string
	start := 0
	for {
		end := start + p.chunkSize
		if end >= total {
			parts = append(parts, string(runes[start:]))
			return parts
		}

		end = p.breakPoint(runes, start, end)
		parts = append(parts, string(runes[start:end]))

		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}
}

// breakPoint moves end back to just after whitespace in the last fifth of
// the chunk, if any.
func (p *Processor) breakPoint(runes []rune, start, end int) int {
	floor := end - p.chunkSize/5
	if floor <= start {
		floor = start + 1
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := p.Split(doc.Content)
	if len(parts) == 0 {
		// Empty content produces no chunks
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    part,
			Position:   i,
		})
	}
	return chunks, nil
}

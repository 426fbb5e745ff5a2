package domain

import "time"

// RawDocument represents opaque bytes read from an input file.
// It is the reader's output before normalisation.
type RawDocument struct {
	// SourceID is the stable identifier of the originating file (its base name).
	SourceID string

	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains reader-specific key-value pairs.
	Metadata map[string]any
}

// Document is the normalised form of an input file: its recovered text.
type Document struct {
	// ID is the unique identifier assigned during normalisation.
	ID string

	// SourceID is the stable identifier of the originating file (its base name).
	SourceID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full recovered text.
	Content string

	// Metadata contains arbitrary key-value pairs (format, page count, ...).
	Metadata map[string]any

	// CreatedAt is when the document was normalised.
	CreatedAt time.Time
}

// Chunk is a slice of document text sent to the analysis service on its own.
// Large documents are split so each request fits the model context.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

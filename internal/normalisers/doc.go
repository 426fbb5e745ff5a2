// Package normalisers recovers plain text from the document formats kith
// ingests. Each subpackage implements driven.Normaliser for one format
// (plain text, Word, PDF and Pages), and Registry dispatches a raw document
// to the best matching normaliser by file extension, then by MIME type.
package normalisers

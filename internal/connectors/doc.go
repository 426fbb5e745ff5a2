// Package connectors provides the input side of kith: adapters that turn
// paths given on the command line, or files appearing in watched
// directories, into raw documents ready for normalisation.
package connectors

// Package mcp provides an MCP (Model Context Protocol) server adapter for kith.
// It lets AI assistants read the people/interest ledger. The server never
// writes to the ledger.
package mcp

import "errors"

var (
	// ErrMissingLedgerService is returned when the ledger service is not provided.
	ErrMissingLedgerService = errors.New("mcp: ledger service is required")

	// ErrMissingOutput is returned when no ledger path is provided.
	ErrMissingOutput = errors.New("mcp: ledger path is required")

	// ErrMissingName is returned by lookup_person when no name is given.
	ErrMissingName = errors.New("mcp: name is required")
)

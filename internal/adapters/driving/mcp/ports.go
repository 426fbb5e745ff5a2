package mcp

import (
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Ledger answers read-only ledger queries.
	Ledger driving.LedgerService

	// Output is the ledger path the server reads.
	Output string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ledger == nil {
		return ErrMissingLedgerService
	}
	if p.Output == "" {
		return ErrMissingOutput
	}
	return nil
}

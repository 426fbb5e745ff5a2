package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// EntryOutput is one ledger entry as returned to clients.
type EntryOutput struct {
	SourceID  string   `json:"source_id"`
	Name      string   `json:"name"`
	Interests []string `json:"interests"`
}

// ListEntriesInput is the input schema for the list_entries tool.
type ListEntriesInput struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"only return entries extracted from this file name"`
	Name     string `json:"name,omitempty" jsonschema:"only return entries for this person (case-insensitive)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"return only the most recent entries (default all)"`
}

// ListEntriesOutput is the output schema for the list_entries tool.
type ListEntriesOutput struct {
	Entries []EntryOutput `json:"entries"`
	Count   int           `json:"count"`
}

// LookupPersonInput is the input schema for the lookup_person tool.
type LookupPersonInput struct {
	Name string `json:"name" jsonschema:"the person's name (case-insensitive)"`
}

// LookupPersonOutput is the output schema for the lookup_person tool.
type LookupPersonOutput struct {
	Name      string   `json:"name"`
	Found     bool     `json:"found"`
	Sources   []string `json:"sources"`
	Interests []string `json:"interests"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List people and their interests from the ledger, most recent last",
	}, s.handleListEntries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_person",
		Description: "Look up every interest recorded for a person across all source files",
	}, s.handleLookupPerson)
}

// handleListEntries handles the list_entries tool invocation.
func (s *Server) handleListEntries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListEntriesInput,
) (*mcp.CallToolResult, ListEntriesOutput, error) {
	filter := driving.LedgerFilter{
		SourceID:   input.SourceID,
		PersonName: input.Name,
		Limit:      input.Limit,
	}
	entries, err := s.ports.Ledger.List(ctx, s.ports.Output, filter)
	if err != nil {
		return nil, ListEntriesOutput{}, err
	}

	output := ListEntriesOutput{
		Entries: toEntryOutputs(entries),
		Count:   len(entries),
	}
	return nil, output, nil
}

// handleLookupPerson handles the lookup_person tool invocation.
func (s *Server) handleLookupPerson(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupPersonInput,
) (*mcp.CallToolResult, LookupPersonOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, LookupPersonOutput{}, ErrMissingName
	}

	entries, err := s.ports.Ledger.List(ctx, s.ports.Output, driving.LedgerFilter{PersonName: name})
	if err != nil {
		return nil, LookupPersonOutput{}, err
	}

	interests := domain.NewInterestSet()
	sources := make([]string, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, entry.Key.SourceID)
		interests = interests.Union(entry.Interests)
	}

	output := LookupPersonOutput{
		Name:      name,
		Found:     len(entries) > 0,
		Sources:   sources,
		Interests: interests.Sorted(),
	}
	return nil, output, nil
}

func toEntryOutputs(entries []domain.LedgerEntry) []EntryOutput {
	out := make([]EntryOutput, len(entries))
	for i, entry := range entries {
		out[i] = EntryOutput{
			SourceID:  entry.Key.SourceID,
			Name:      entry.Key.PersonName,
			Interests: entry.Interests.Sorted(),
		}
	}
	return out
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for kith resources.
	uriScheme = "kith://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the whole ledger.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ledger",
		Name:        "ledger",
		Description: "Every ledger entry, most recent last",
		MIMEType:    "application/json",
	}, s.handleLedgerResource)

	// Static resource for listing source files.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Source file names that produced ledger entries",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Template for the entries of one source file.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}",
		Name:        "source-entries",
		Description: "Ledger entries extracted from a specific source file",
		MIMEType:    "application/json",
	}, s.handleSourceEntriesResource)
}

// handleLedgerResource returns every entry in ledger order.
func (s *Server) handleLedgerResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Ledger.List(ctx, s.ports.Output, driving.LedgerFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return jsonResult(req.Params.URI, toEntryOutputs(entries))
}

// handleSourcesResource returns the distinct source identifiers.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources, err := s.ports.Ledger.Sources(ctx, s.ports.Output)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return jsonResult(req.Params.URI, sources)
}

// handleSourceEntriesResource returns the entries of one source file.
func (s *Server) handleSourceEntriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract sourceId from URI: kith://sources/{sourceId}
	sourceID := extractSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.Ledger.List(ctx, s.ports.Output, driving.LedgerFilter{SourceID: sourceID})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, toEntryOutputs(entries))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like kith://sources/{sourceId}.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "sources/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

package mcp

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// mockLedgerService is a mock implementation of driving.LedgerService.
// It records the last filter and returns canned entries.
type mockLedgerService struct {
	entries []domain.LedgerEntry
	sources []string
	err     error

	lastOutput string
	lastFilter driving.LedgerFilter
}

func (m *mockLedgerService) List(
	_ context.Context,
	output string,
	filter driving.LedgerFilter,
) ([]domain.LedgerEntry, error) {
	m.lastOutput = output
	m.lastFilter = filter
	return m.entries, m.err
}

func (m *mockLedgerService) Sources(_ context.Context, output string) ([]string, error) {
	m.lastOutput = output
	return m.sources, m.err
}

func entry(source, name string, interests ...string) domain.LedgerEntry {
	return domain.LedgerEntry{
		Key:       domain.LedgerKey{SourceID: source, PersonName: name},
		Interests: domain.NewInterestSet(interests...),
	}
}

func newTestServer(ledger *mockLedgerService) *Server {
	server, err := NewServer(&Ports{Ledger: ledger, Output: "results.csv"})
	if err != nil {
		panic(err)
	}
	return server
}

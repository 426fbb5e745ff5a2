package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

func TestServer_handleListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("returns entries with sorted interests", func(t *testing.T) {
		ledger := &mockLedgerService{entries: []domain.LedgerEntry{
			entry("a.txt", "Alice", "reading", "chess"),
			entry("b.pdf", "Bob"),
		}}
		server := newTestServer(ledger)

		input := ListEntriesInput{SourceID: "a.txt", Name: "alice", Limit: 3}
		_, output, err := server.handleListEntries(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, EntryOutput{SourceID: "a.txt", Name: "Alice", Interests: []string{"chess", "reading"}}, output.Entries[0])
		assert.Equal(t, []string{}, output.Entries[1].Interests)
		assert.Equal(t, "results.csv", ledger.lastOutput)
		assert.Equal(t, driving.LedgerFilter{SourceID: "a.txt", PersonName: "alice", Limit: 3}, ledger.lastFilter)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(&mockLedgerService{err: assert.AnError})

		_, _, err := server.handleListEntries(ctx, nil, ListEntriesInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestServer_handleLookupPerson(t *testing.T) {
	ctx := context.Background()

	t.Run("merges interests across sources", func(t *testing.T) {
		ledger := &mockLedgerService{entries: []domain.LedgerEntry{
			entry("a.txt", "Alice", "chess"),
			entry("c.docx", "alice", "tea", "chess"),
		}}
		server := newTestServer(ledger)

		_, output, err := server.handleLookupPerson(ctx, nil, LookupPersonInput{Name: "  Alice "})

		require.NoError(t, err)
		assert.True(t, output.Found)
		assert.Equal(t, "Alice", output.Name)
		assert.Equal(t, []string{"a.txt", "c.docx"}, output.Sources)
		assert.Equal(t, []string{"chess", "tea"}, output.Interests)
		assert.Equal(t, "Alice", ledger.lastFilter.PersonName)
	})

	t.Run("unknown person is not an error", func(t *testing.T) {
		server := newTestServer(&mockLedgerService{})

		_, output, err := server.handleLookupPerson(ctx, nil, LookupPersonInput{Name: "Zed"})

		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.Empty(t, output.Sources)
		assert.Equal(t, []string{}, output.Interests)
	})

	t.Run("empty name", func(t *testing.T) {
		server := newTestServer(&mockLedgerService{})

		_, _, err := server.handleLookupPerson(ctx, nil, LookupPersonInput{Name: "   "})

		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(&mockLedgerService{err: assert.AnError})

		_, _, err := server.handleLookupPerson(ctx, nil, LookupPersonInput{Name: "Alice"})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

package driving

import (
	"context"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// LedgerFilter narrows a ledger listing.
type LedgerFilter struct {
	// SourceID keeps only entries from this source when non-empty.
	SourceID string

	// PersonName keeps only entries whose name matches case-insensitively when non-empty.
	PersonName string

	// Limit keeps only the most recent entries when positive.
	Limit int
}

// LedgerService answers read-only questions about a persisted ledger.
type LedgerService interface {
	// List returns entries in ledger order, oldest first.
	List(ctx context.Context, output string, filter LedgerFilter) ([]domain.LedgerEntry, error)

	// Sources returns the distinct source identifiers in order of first appearance.
	Sources(ctx context.Context, output string) ([]string, error)
}

// Package domain defines the core business entities for kith.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Ledger: The recency-ordered, key-unique store of people and interests
//   - LedgerKey / LedgerEntry / InterestSet: Its keys and records
//   - Fact: A (person, interests) pair produced by analysis
//   - RawDocument / Document: Input file bytes and their recovered text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

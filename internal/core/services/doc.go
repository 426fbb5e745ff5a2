// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestService is the orchestrator: it loads the ledger once, fans text
// extraction and analysis out over a bounded worker group, applies the
// resulting facts in input order and saves once. WatchService feeds it
// batches from a directory watcher, LedgerService answers read-only
// queries and SettingsService manages configuration.
package services

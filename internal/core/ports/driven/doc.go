// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentReader: Reads input files into raw documents
//   - Normaliser: Recovers plain text from one file format
//   - NormaliserRegistry: Selects the normaliser for a file
//   - FactExtractor: Asks the remote analysis service for people and interests
//   - LedgerStore: Ledger persistence (CSV or SQLite)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PostProcessor: Splits long documents into chunks before analysis.
//     Without it, each document is analysed whole.
//   - PromptStore: Custom prompt templates. Without it, built-in prompts are used.
//   - FileWatcher: Reports new files in watched directories.
//   - AnalysisValidator: Pings the analysis service when settings change.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven

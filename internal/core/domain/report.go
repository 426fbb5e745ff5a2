package domain

// Fact is one (person, interests) record produced by the analysis service
// for a document.
type Fact struct {
	PersonName string
	Interests  []string
}

// FileStatus summarises what an ingest did with one input file.
type FileStatus string

// Per-file statuses shown on the command line.
const (
	// FileStatusAdded means every applied fact created a new entry.
	FileStatusAdded FileStatus = "added"

	// FileStatusUpdated means at least one fact updated an existing entry.
	FileStatusUpdated FileStatus = "updated"

	// FileStatusSkipped means the file produced no usable facts.
	FileStatusSkipped FileStatus = "skipped"

	// FileStatusError means extraction or analysis failed.
	FileStatusError FileStatus = "error"
)

// FactResult records the outcome of applying one fact to the ledger.
type FactResult struct {
	Key     LedgerKey
	Outcome UpsertOutcome
}

// FileReport describes the processing of one input file.
type FileReport struct {
	// Path is the input path as given.
	Path string

	// SourceID is the ledger source identifier derived from Path.
	SourceID string

	// Status is the overall result for the file.
	Status FileStatus

	// Err is the extraction or analysis failure, when Status is error.
	Err error

	// Facts lists each applied fact in application order.
	Facts []FactResult
}

// IngestReport describes one ingest run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Output is where the ledger was written.
	Output string

	// Files holds one report per input path, in input order.
	Files []FileReport

	// Entries is the ledger size after the run.
	Entries int
}

// Count returns the number of files with the given status.
func (r *IngestReport) Count(status FileStatus) int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Status == status {
			n++
		}
	}
	return n
}

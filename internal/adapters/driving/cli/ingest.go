package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kith/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Extract people and interests from files into the ledger",
	Long: `Reads each file (.txt, .docx, .pdf or .pages), asks the analysis service
which people it mentions and what they are interested in, and records the
answers in the ledger.

Files are analysed concurrently but applied in the order given, so the last
file touched is the most recent entry. A person already in the ledger for
the same file keeps every interest ever recorded and moves to the end.

The ledger is a CSV file unless the output path ends in .db, .sqlite or
.sqlite3, in which case SQLite is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringP("out", "o", "", "ledger path (default from settings, results.csv)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errAnalysisNotConfigured()
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("getting out flag: %w", err)
	}
	output := resolveOutput(out)

	cmd.Println(style.Title.Render("Starting processing of input files. For large documents, this may take a while…"))

	report, err := ingestService.Ingest(cmd.Context(), args, output)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	cmd.Printf("\nDone — ledger now up-to-date at %s\n", report.Output)
	return nil
}

// printReport writes one status line per file and one line per applied fact.
func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	for i := range report.Files {
		file := &report.Files[i]
		status := style.status(file.Status).Render(string(file.Status)) + padding(string(file.Status), 7)
		if file.Err != nil {
			cmd.Printf("%s %s: %v\n", status, file.Path, file.Err)
			continue
		}
		cmd.Printf("%s %s\n", status, file.Path)

		for _, fact := range file.Facts {
			switch fact.Outcome {
			case domain.OutcomeUpdated:
				cmd.Printf("  updated (moved to bottom): %s\n", fact.Key)
			default:
				cmd.Printf("  added: %s\n", fact.Key)
			}
		}
	}

	cmd.Println(style.Muted.Render(fmt.Sprintf(
		"%d files: %d added, %d updated, %d skipped, %d failed; %d entries in ledger",
		len(report.Files),
		report.Count(domain.FileStatusAdded),
		report.Count(domain.FileStatusUpdated),
		report.Count(domain.FileStatusSkipped),
		report.Count(domain.FileStatusError),
		report.Entries,
	)))
}

// padding returns the spaces that left-align s in a column of width runes.
func padding(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kith/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR...",
	Short: "Ingest files as they appear in directories",
	Long: `Watches the given directories (and their subdirectories) and ingests
supported files when they are created or written. Changes arriving close
together are processed as one batch. Press Ctrl+C to stop.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("out", "o", "", "ledger path (default from settings, results.csv)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errAnalysisNotConfigured()
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("getting out flag: %w", err)
	}
	output := resolveOutput(out)

	cmd.Println(style.Title.Render(fmt.Sprintf("Watching %d directories; ledger at %s", len(args), output)))

	return watchService.Watch(cmd.Context(), args, output, func(report *domain.IngestReport) {
		printReport(cmd, report)
	})
}

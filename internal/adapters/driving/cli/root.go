// Package cli provides the kith command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
	"github.com/custodia-labs/kith/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired by main.
var (
	ingestService   driving.IngestService
	watchService    driving.WatchService
	ledgerService   driving.LedgerService
	settingsService driving.SettingsService

	// analysisErr explains why ingestService and watchService are nil.
	analysisErr error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kith",
	Short: "Keep a ledger of the people in your documents and what they care about",
	Long: `kith reads .txt, .docx, .pdf and .pages files, asks an analysis service
which people each document mentions and what they are interested in, and
keeps the answers in a CSV or SQLite ledger ordered by recency.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services holds the driving ports the commands use.
type Services struct {
	Ingest   driving.IngestService
	Watch    driving.WatchService
	Ledger   driving.LedgerService
	Settings driving.SettingsService

	// AnalysisErr is reported by ingest and watch when Ingest is nil,
	// typically because no API key is configured.
	AnalysisErr error
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	watchService = s.Watch
	ledgerService = s.Ledger
	settingsService = s.Settings
	analysisErr = s.AnalysisErr
}

// SetVersion sets the version reported by 'kith version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands such as watch and mcp serve. Errors are returned, not printed.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// errAnalysisNotConfigured explains why a command that needs the analysis
// service cannot run.
func errAnalysisNotConfigured() error {
	if analysisErr != nil {
		return analysisErr
	}
	return errors.New("ingest service not configured")
}

// resolveOutput picks the ledger path: the flag, then the configured
// default.
func resolveOutput(flag string) string {
	if flag != "" {
		return flag
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Ingest.Output != "" {
			return settings.Ingest.Output
		}
	}
	return domain.DefaultOutput
}

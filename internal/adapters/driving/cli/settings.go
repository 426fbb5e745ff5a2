package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kith/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the analysis service, ingest options and ledger format.

Settings are stored in ~/.kith/config.toml (KITH_CONFIG_DIR overrides the
directory). When no API key is stored, DEEPSEEK_API_KEY or KITH_API_KEY is
used, including values from a .env file in the working directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAnalysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Configure the analysis service",
	Long: `Configure the remote service that finds people and interests in text.

Providers:
  chat     - OpenAI-compatible chat completions (DeepSeek by default)
  analyze  - single-object POST {base}/analyze endpoint

Flags that are not given keep their current value.`,
	RunE: runSettingsAnalysis,
}

var settingsIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Configure ingest options",
	Long: `Configure concurrency, chunking and the default ledger path.

A chunk size of 0 sends each document to the analysis service whole.
Flags that are not given keep their current value.`,
	RunE: runSettingsIngest,
}

func init() {
	f := settingsAnalysisCmd.Flags()
	f.String("provider", "", "analysis provider (chat, analyze)")
	f.String("base-url", "", "API base URL (default depends on provider)")
	f.String("model", "", "model name (chat provider)")
	f.String("api-key", "", "API key")
	f.Bool("api-key-prompt", false, "read the API key from the terminal without echo")
	f.Bool("validate", false, "ping the service after saving")

	f = settingsIngestCmd.Flags()
	f.Int("concurrency", 0, "files analysed at once")
	f.Int("chunk-size", 0, "split texts longer than this many characters (0 = off)")
	f.Int("chunk-overlap", 0, "characters shared by adjacent chunks")
	f.String("output", "", "default ledger path")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAnalysisCmd)
	settingsCmd.AddCommand(settingsIngestCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Analysis settings
	cmd.Println("[Analysis]")
	cmd.Printf("  Provider: %s\n", settings.Analysis.Provider.Description())
	cmd.Printf("  Base URL: %s\n", settings.Analysis.BaseURL)
	if settings.Analysis.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Analysis.Model)
	}
	if settings.Analysis.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Analysis.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Timeout: %s\n", settings.Analysis.Timeout)
	cmd.Printf("  Requests/second: %g\n", settings.Analysis.RequestsPerSecond)
	cmd.Printf("  Cache size: %d\n", settings.Analysis.CacheSize)
	cmd.Println()

	// Ingest settings
	cmd.Println("[Ingest]")
	cmd.Printf("  Concurrency: %d\n", settings.Ingest.Concurrency)
	if settings.Ingest.ChunkSize > 0 {
		cmd.Printf("  Chunk size: %d (overlap %d)\n", settings.Ingest.ChunkSize, settings.Ingest.ChunkOverlap)
	} else {
		cmd.Printf("  Chunk size: off\n")
	}
	cmd.Printf("  Output: %s\n", settings.Ingest.Output)
	cmd.Println()

	// Extraction and ledger settings
	cmd.Println("[Ledger]")
	cmd.Printf("  Backend: %s\n", settings.Ledger.Backend)
	cmd.Printf("  Prefer pdftotext: %t\n", settings.Extract.PreferPDFToText)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'kith settings analysis --api-key-prompt' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsAnalysis(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	flags := cmd.Flags()
	provider := current.Analysis.Provider
	if flags.Changed("provider") {
		value, _ := flags.GetString("provider") //nolint:errcheck // flag is defined in init
		provider = domain.AnalysisProvider(strings.ToLower(strings.TrimSpace(value)))
	}
	providerChanged := provider != current.Analysis.Provider

	baseURL := keepUnlessChanged(cmd, "base-url", current.Analysis.BaseURL, providerChanged)
	model := keepUnlessChanged(cmd, "model", current.Analysis.Model, providerChanged)

	apiKey, _ := flags.GetString("api-key") //nolint:errcheck // flag is defined in init
	if prompt, _ := flags.GetBool("api-key-prompt"); prompt { //nolint:errcheck // flag is defined in init
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin())
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required")
		}
	}

	if err := settingsService.SetAnalysis(provider, baseURL, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure analysis service: %w", err)
	}

	if validate, _ := flags.GetBool("validate"); validate { //nolint:errcheck // flag is defined in init
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateAnalysisConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("analysis configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Analysis service configured: %s\n", provider.Description())
	return nil
}

func runSettingsIngest(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	concurrency := intUnlessChanged(cmd, "concurrency", current.Ingest.Concurrency)
	chunkSize := intUnlessChanged(cmd, "chunk-size", current.Ingest.ChunkSize)
	chunkOverlap := intUnlessChanged(cmd, "chunk-overlap", current.Ingest.ChunkOverlap)
	output, _ := cmd.Flags().GetString("output") //nolint:errcheck // flag is defined in init

	if err := settingsService.SetIngest(concurrency, chunkSize, chunkOverlap, output); err != nil {
		return fmt.Errorf("failed to configure ingest: %w", err)
	}

	cmd.Println("Ingest settings saved.")
	return nil
}

// Helper functions.

// keepUnlessChanged returns the flag value when it was given. Otherwise it
// keeps current, or returns "" so the provider default applies when the
// provider changed.
func keepUnlessChanged(cmd *cobra.Command, name, current string, providerChanged bool) string {
	if cmd.Flags().Changed(name) {
		value, _ := cmd.Flags().GetString(name) //nolint:errcheck // flag is defined in init
		return strings.TrimSpace(value)
	}
	if providerChanged {
		return ""
	}
	return current
}

func intUnlessChanged(cmd *cobra.Command, name string, current int) int {
	if !cmd.Flags().Changed(name) {
		return current
	}
	value, _ := cmd.Flags().GetInt(name) //nolint:errcheck // flag is defined in init
	return value
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

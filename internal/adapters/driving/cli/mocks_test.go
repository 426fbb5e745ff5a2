package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

// mockIngestService records its arguments and returns a canned report.
type mockIngestService struct {
	report *domain.IngestReport
	err    error

	paths  []string
	output string
}

func (m *mockIngestService) Ingest(_ context.Context, paths []string, output string) (*domain.IngestReport, error) {
	m.paths = paths
	m.output = output
	if m.err != nil {
		return nil, m.err
	}
	report := *m.report
	report.Output = output
	return &report, nil
}

// mockWatchService delivers canned reports to the callback.
type mockWatchService struct {
	reports []*domain.IngestReport
	err     error

	dirs   []string
	output string
}

func (m *mockWatchService) Watch(
	_ context.Context,
	dirs []string,
	output string,
	onReport func(*domain.IngestReport),
) error {
	m.dirs = dirs
	m.output = output
	for _, r := range m.reports {
		onReport(r)
	}
	return m.err
}

// mockLedgerService returns canned entries.
type mockLedgerService struct {
	entries []domain.LedgerEntry
	err     error

	output string
	filter driving.LedgerFilter
}

func (m *mockLedgerService) List(_ context.Context, output string, filter driving.LedgerFilter) ([]domain.LedgerEntry, error) {
	m.output = output
	m.filter = filter
	return m.entries, m.err
}

func (m *mockLedgerService) Sources(_ context.Context, output string) ([]string, error) {
	m.output = output
	return nil, m.err
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	analysisCalls int
	provider      domain.AnalysisProvider
	baseURL       string
	model         string
	apiKey        string

	ingestCalls  int
	concurrency  int
	chunkSize    int
	chunkOverlap int
	output       string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetAnalysis(provider domain.AnalysisProvider, baseURL, model, apiKey string) error {
	m.analysisCalls++
	m.provider, m.baseURL, m.model, m.apiKey = provider, baseURL, model, apiKey
	if !provider.IsValid() {
		return domain.ErrInvalidInput
	}
	return nil
}

func (m *mockSettingsService) SetIngest(concurrency, chunkSize, chunkOverlap int, output string) error {
	m.ingestCalls++
	m.concurrency, m.chunkSize, m.chunkOverlap, m.output = concurrency, chunkSize, chunkOverlap, output
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateAnalysisConfig() error { return m.pingErr }

// setServices installs services for one test and restores the previous ones.
func setServices(t *testing.T, s Services) {
	t.Helper()
	old := Services{
		Ingest:      ingestService,
		Watch:       watchService,
		Ledger:      ledgerService,
		Settings:    settingsService,
		AnalysisErr: analysisErr,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(old) })
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// Command kith keeps a ledger of the people mentioned in documents and
// their interests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kith/internal/adapters/driven/ai"
	"github.com/custodia-labs/kith/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kith/internal/adapters/driven/storage"
	"github.com/custodia-labs/kith/internal/adapters/driving/cli"
	"github.com/custodia-labs/kith/internal/connectors/filesystem"
	"github.com/custodia-labs/kith/internal/core/services"
	"github.com/custodia-labs/kith/internal/logger"
	"github.com/custodia-labs/kith/internal/normalisers"
	"github.com/custodia-labs/kith/internal/postprocessors/chunker"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env file is normal.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	registry := normalisers.NewDefaultRegistry(settings.Extract.PreferPDFToText)
	source := services.NewTextSource(filesystem.NewReader(), registry)
	openStore := storage.NewLedgerStoreFactory(settings.Ledger.Backend)

	svcs := cli.Services{
		Ledger:   services.NewLedgerService(openStore),
		Settings: settingsService,
	}

	// Settings and list work without an API key; ingest and watch report
	// the configuration error when they run.
	extractor, err := ai.CreateFactExtractor(&settings.Analysis, promptStore)
	if err != nil {
		logger.Debug("analysis service unavailable: %v", err)
		svcs.AnalysisErr = err
	} else {
		defer func() { _ = extractor.Close() }()

		opts := []services.IngestOption{services.WithConcurrency(settings.Ingest.Concurrency)}
		if settings.Ingest.ChunkSize > 0 {
			opts = append(opts, services.WithChunker(chunker.New(
				chunker.WithChunkSize(settings.Ingest.ChunkSize),
				chunker.WithOverlap(settings.Ingest.ChunkOverlap),
			)))
		}
		ingest := services.NewIngestService(source, extractor, openStore, opts...)
		svcs.Ingest = ingest
		svcs.Watch = services.NewWatchService(
			filesystem.NewWatcher(registry.Supports, filesystem.DefaultDebounce),
			ingest,
		)
	}

	cli.SetServices(svcs)
	cli.SetVersion(version)
	return cli.Execute(ctx)
}

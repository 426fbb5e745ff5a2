package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
	"github.com/custodia-labs/kith/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DocumentSource produces the text of an input file.
// *TextSource is the production implementation.
type DocumentSource interface {
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

// IngestService runs extraction and analysis for a batch of files and
// applies the resulting facts to the ledger.
type IngestService struct {
	source      DocumentSource
	extractor   driven.FactExtractor
	openStore   driven.LedgerStoreFactory
	chunker     driven.PostProcessor
	concurrency int
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithConcurrency bounds how many files are extracted and analysed at once.
// Non-positive values select domain.DefaultConcurrency.
func WithConcurrency(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithChunker splits long documents before analysis. Facts from each chunk
// are concatenated in chunk order. A nil chunker sends documents whole.
func WithChunker(chunker driven.PostProcessor) IngestOption {
	return func(s *IngestService) {
		s.chunker = chunker
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	source DocumentSource,
	extractor driven.FactExtractor,
	openStore driven.LedgerStoreFactory,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		source:      source,
		extractor:   extractor,
		openStore:   openStore,
		concurrency: domain.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileOutcome is what the parallel phase learned about one input file.
type fileOutcome struct {
	facts []domain.Fact
	err   error
}

// Ingest loads the ledger at output, extracts and analyses every path
// concurrently, applies facts in path order and saves the ledger once.
func (s *IngestService) Ingest(ctx context.Context, paths []string, output string) (*domain.IngestReport, error) {
	if output == "" {
		output = domain.DefaultOutput
	}

	report := &domain.IngestReport{
		RunID:  uuid.New().String(),
		Output: output,
		Files:  make([]domain.FileReport, 0, len(paths)),
	}
	start := time.Now()
	logger.Info("Ingest %s: %d files into %s", report.RunID, len(paths), output)

	store, err := s.openStore(output)
	if err != nil {
		return nil, &domain.LoadError{Path: output, Err: err}
	}
	defer store.Close()

	ledger, err := store.Load(ctx)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &domain.LoadError{Path: output, Err: err}
	}
	logger.Debug("Loaded %d entries from %s", ledger.Len(), store.Path())

	outcomes := s.analyseAll(ctx, paths)

	// A cancelled run leaves the persisted ledger untouched.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest cancelled: %w", err)
	}

	for i, path := range paths {
		report.Files = append(report.Files, applyOutcome(ledger, path, outcomes[i]))
	}

	if err := store.Save(ctx, ledger); err != nil {
		var saveErr *domain.SaveError
		if errors.As(err, &saveErr) {
			return nil, err
		}
		return nil, &domain.SaveError{Path: output, Err: err}
	}

	report.Entries = ledger.Len()
	logger.Elapsed(fmt.Sprintf("Ingest %s", report.RunID), start)
	return report, nil
}

// analyseAll runs extraction and analysis for every path with bounded
// parallelism. Outcomes are stored at the index of their path.
func (s *IngestService) analyseAll(ctx context.Context, paths []string) []fileOutcome {
	outcomes := make([]fileOutcome, len(paths))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			facts, err := s.analyse(ctx, path)
			outcomes[i] = fileOutcome{facts: facts, err: err}
			return nil
		})
	}
	_ = g.Wait() // workers record failures in outcomes

	return outcomes
}

// analyse extracts the text of one file and asks the analysis service for
// the people it mentions.
func (s *IngestService) analyse(ctx context.Context, path string) ([]domain.Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.AnalysisError{Path: path, Err: err}
	}

	doc, err := s.source.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	texts, err := s.split(ctx, doc)
	if err != nil {
		return nil, &domain.ExtractError{Path: path, Err: err}
	}

	var facts []domain.Fact
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		found, err := s.extractor.Extract(ctx, text)
		if err != nil {
			return nil, &domain.AnalysisError{Path: path, Err: err}
		}
		facts = append(facts, found...)
	}

	logger.Debug("Analysed %s: %d facts from %d texts", path, len(facts), len(texts))
	return facts, nil
}

func (s *IngestService) split(ctx context.Context, doc *domain.Document) ([]string, error) {
	if s.chunker == nil {
		return []string{doc.Content}, nil
	}

	chunks, err := s.chunker.Process(ctx, doc, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.chunker.Name(), err)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	return texts, nil
}

// applyOutcome upserts the facts of one file and summarises what happened.
// Names are trimmed and their line breaks folded to LF; facts without a
// name are dropped.
func applyOutcome(ledger *domain.Ledger, path string, outcome fileOutcome) domain.FileReport {
	file := domain.FileReport{
		Path:     path,
		SourceID: filepath.Base(path),
	}

	if outcome.err != nil {
		logger.Warn("%v", outcome.err)
		file.Status = domain.FileStatusError
		file.Err = outcome.err
		return file
	}

	updated := false
	for _, fact := range outcome.facts {
		name := domain.FoldLineBreaks(strings.TrimSpace(fact.PersonName))
		if name == "" {
			logger.Debug("Dropping fact without a name from %s", path)
			continue
		}

		key := domain.LedgerKey{SourceID: file.SourceID, PersonName: name}
		result := ledger.Upsert(key, fact.Interests)
		if result == domain.OutcomeUpdated {
			updated = true
		}
		file.Facts = append(file.Facts, domain.FactResult{Key: key, Outcome: result})
	}

	switch {
	case len(file.Facts) == 0:
		file.Status = domain.FileStatusSkipped
	case updated:
		file.Status = domain.FileStatusUpdated
	default:
		file.Status = domain.FileStatusAdded
	}
	return file
}

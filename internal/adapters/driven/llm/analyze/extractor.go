// Package analyze provides a FactExtractor for a single-object analysis
// endpoint: POST {base}/analyze with a prompt, answered by one
// {"name","interests"} record.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/kith/internal/adapters/driven/llm/response"
	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driven"
)

// Ensure Extractor implements the interfaces.
var (
	_ driven.FactExtractor    = (*Extractor)(nil)
	_ driven.PromptStoreAware = (*Extractor)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultAnalyzeBaseURL
	DefaultTimeout = domain.DefaultAnalysisTimeout

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// DefaultPrompt is used when no PromptStore is configured.
const DefaultPrompt = "Extract the person’s full name and their interests from the following text:\n\n" +
	"```\n%s\n```\n\n" +
	"Return JSON with keys `name` (string) and `interests` (list of strings)."

// Config holds configuration for the analyze extractor.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.deepseek.ai/v1).
	BaseURL string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Extractor calls the analyze endpoint.
type Extractor struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	promptStore driven.PromptStore
}

// analyzeRequest is the /analyze request format.
type analyzeRequest struct {
	Prompt  string         `json:"prompt"`
	Options analyzeOptions `json:"options"`
}

type analyzeOptions struct {
	Format string `json:"format"`
}

// New creates an analyze extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("analyze: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Extractor{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Extract posts text to the analyze endpoint and decodes the person it returns.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	reqBody := analyzeRequest{
		Prompt:  response.RenderPrompt(e.loadPrompt(driven.PromptExtractPerson, DefaultPrompt), text),
		Options: analyzeOptions{Format: "json"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/analyze", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %v", domain.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrAnalysisUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrAnalysisUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return response.ParseFacts(string(body))
}

// ModelName returns the endpoint being used.
func (e *Extractor) ModelName() string {
	return e.baseURL + "/analyze"
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Extractor) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Ping checks that the service answers at all. Any status below 500 counts.
func (e *Extractor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("analyze: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: analyze: ping failed: %v", domain.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: analyze: API returned status %d", domain.ErrAnalysisUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (e *Extractor) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (e *Extractor) loadPrompt(name, fallback string) string {
	if e.promptStore == nil {
		return fallback
	}
	prompt, err := e.promptStore.Load(name)
	if err != nil || !strings.Contains(prompt, response.Placeholder) {
		return fallback
	}
	return prompt
}

// Package chat provides a FactExtractor backed by an OpenAI-compatible chat
// completion API. DeepSeek is the default endpoint.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

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
	DefaultBaseURL    = domain.DefaultChatBaseURL
	DefaultModel      = domain.DefaultChatModel
	DefaultTimeout    = domain.DefaultAnalysisTimeout
	DefaultMaxRetries = 2
)

// Config holds configuration for the chat extractor.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.deepseek.com/v1).
	BaseURL string

	// Model is the chat model to use (default: deepseek-chat).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxRetries is how often transient failures are retried.
	MaxRetries int

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Extractor asks a chat model for the people mentioned in a text.
type Extractor struct {
	client      openai.Client
	model       string
	promptStore driven.PromptStore
}

// DefaultPrompt is used when no PromptStore is configured.
const DefaultPrompt = "Extract *all* people’s names and interests from the text below.\n\n" +
	"Respond ONLY with a JSON array of objects, each having:\n" +
	"  • \"name\": string\n" +
	"  • \"interests\": array of strings\n\n" +
	"Example:\n" +
	"[ {\"name\":\"Alice\",\"interests\":[\"x\",\"y\"]}, … ]\n\n" +
	"Text:\n```%s```"

// New creates a chat extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chat: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	)

	return &Extractor{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Extract sends text to the chat model and decodes the people it lists.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Fact, error) {
	prompt := response.RenderPrompt(e.loadPrompt(driven.PromptExtractPeople, DefaultPrompt), text)

	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, wrapError(err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices returned", domain.ErrMalformedResponse)
	}

	return response.ParseFacts(completion.Choices[0].Message.Content)
}

// ModelName returns the name of the chat model being used.
func (e *Extractor) ModelName() string {
	return e.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Extractor) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Ping validates the API key by listing models.
func (e *Extractor) Ping(ctx context.Context) error {
	if _, err := e.client.Models.List(ctx); err != nil {
		return fmt.Errorf("chat: ping failed: %w", wrapError(err))
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

// wrapError marks transport and server failures as ErrAnalysisUnavailable.
func wrapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %v", domain.ErrAnalysisUnavailable, apiErr.StatusCode, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
}

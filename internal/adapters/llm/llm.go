package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultMaxTokens = 150
	DefaultTimeout   = 30 * time.Second
)

var (
	ErrMissingAPIKey   = errors.New("upstream API key not configured")
	ErrUnknownProvider = errors.New("unknown LLM provider")
	ErrEmptyCompletion = errors.New("upstream returned no completion")
)

// UpstreamError is a non-2xx answer from the text-generation provider.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error (status %d): %s", e.Provider, e.Status, e.Message)
}

type Config struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	MaxTokens     int
	Timeout       time.Duration
}

func NewCompleter(ctx context.Context, cfg Config) (domain.Completer, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		})
	case ProviderGemini:
		return NewGeminiCompleter(ctx, GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

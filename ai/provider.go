package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider sends a single prompt to a language model and returns its reply.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	APIURL      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

var ErrMissingAPIKey = errors.New("language model API key is not configured")

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewAnthropicProvider(cfg), nil
	case "ollama":
		return NewOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// ValidateAPIKey reports whether key looks like an OpenAI secret key.
func ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "sk-") && len(key) >= 20
}

func clientTimeout(cfg Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 60 * time.Second
}

package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/sandevgo/topicscribe/pkg/retry"
)

// NewProvider creates the configured Generator wrapped with retries.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (core.Generator, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, fmt.Errorf("llm provider %s requires an api key", cfg.Provider)
	}

	var gen core.Generator
	switch cfg.Provider {
	case "gemini":
		gen = NewGemini(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "openai":
		gen = NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "openrouter":
		gen = NewOpenRouter(cfg.APIKey, cfg.Model)
	case "anthropic":
		gen = NewAnthropic(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "ollama":
		gen = NewOllama(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}

	return NewRetrying(gen, retry.NewDefaultRetrier()), nil
}

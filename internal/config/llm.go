package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/topicscribe/pkg/log"
)

type LLMConfig struct {
	// Provider is one of gemini, openai, openrouter, anthropic, ollama.
	Provider string `env:"SCRIBE_LLM_PROVIDER" envDefault:"gemini"`
	APIKey   string `env:"SCRIBE_LLM_API_KEY"`
	Model    string `env:"SCRIBE_LLM_MODEL" envDefault:"gemini-2.0-flash"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `env:"SCRIBE_LLM_BASE_URL"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

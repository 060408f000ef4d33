package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/topicscribe/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"SCRIBE_RUNTIME_PATH" envDefault:".topicscribe"`

	// Retention
	RetentionDays int           `env:"SCRIBE_RETENTION_DAYS" envDefault:"30"`
	SweepInterval time.Duration `env:"SCRIBE_SWEEP_INTERVAL" envDefault:"24h"`

	// Prompt budget for digests, in tokens
	PromptTokens int `env:"SCRIBE_PROMPT_TOKENS" envDefault:"12000"`

	// Logging
	LogToFile        bool `env:"SCRIBE_LOG_TO_FILE" envDefault:"true"`
	LogRetentionDays int  `env:"SCRIBE_LOG_RETENTION_DAYS" envDefault:"5"`

	EnableTelegram bool `env:"SCRIBE_ENABLE_TELEGRAM" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetStoragePath() string {
	return filepath.Join(c.RuntimePath, "chat_storage")
}

func (c AppConfig) GetRegistryPath() string {
	return filepath.Join(c.GetStoragePath(), "topics_metadata.json")
}

func (c AppConfig) GetLogsPath() string {
	return filepath.Join(c.RuntimePath, "logs")
}

func (c AppConfig) GetRetention() time.Duration {
	if c.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c AppConfig) GetSweepInterval() time.Duration {
	if c.SweepInterval <= 0 {
		return 24 * time.Hour
	}
	return c.SweepInterval
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

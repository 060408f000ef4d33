package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/providers/llm"
	"github.com/sandevgo/topicscribe/internal/service/chatlog"
	"github.com/sandevgo/topicscribe/internal/service/command"
	"github.com/sandevgo/topicscribe/internal/service/digest"
	"github.com/sandevgo/topicscribe/internal/service/retention"
	"github.com/sandevgo/topicscribe/internal/storage/flatfile"
	"github.com/sandevgo/topicscribe/internal/storage/registry"
	"github.com/sandevgo/topicscribe/internal/transport/telegram"
	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/sandevgo/topicscribe/pkg/srv"
)

// storage is the offline part of the stack, shared with maintenance commands.
type storage struct {
	history  *chatlog.Service
	registry *registry.Registry
	sweeper  *retention.Sweeper
}

func NewServices(ctx context.Context, appCfg *config.AppConfig) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Storage
	st, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	// Registered first so it runs last on shutdown.
	services = append(services, srv.NewCleanup(func() error {
		return st.registry.Save(context.WithoutCancel(ctx))
	}))
	services = append(services, st.sweeper)

	// 2. AI Provider
	aiProvider, err := llm.NewProvider(ctx, config.NewLLMConfig(ctx))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	digester := digest.NewService(
		aiProvider,
		digest.WithCounter(digest.NewTiktokenCounter()),
		digest.WithTokenBudget(appCfg.PromptTokens),
	)

	// 3. Commands
	router := command.New(command.NewCommands(st.history, digester))

	// 4. Transports
	if appCfg.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), st.history, router, digester)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	} else {
		logger.Warn().Msg("telegram disabled, only the retention sweeper will run")
	}

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*storage, error) {
	layout := flatfile.NewLayout(cfg.GetStoragePath())
	if err := layout.Ensure(); err != nil {
		return nil, fmt.Errorf("prepare storage directories: %w", err)
	}

	store := flatfile.NewLog(layout)
	reg := registry.New(ctx, cfg.GetRegistryPath())

	sweeper := retention.NewSweeper(store, reg)
	sweeper.Interval = cfg.GetSweepInterval()
	sweeper.Retention = cfg.GetRetention()

	return &storage{
		history:  chatlog.NewService(store, reg, sweeper),
		registry: reg,
		sweeper:  sweeper,
	}, nil
}

// loadAppConfig reads the runtime .env, if any, before parsing the environment.
func loadAppConfig(ctx context.Context) *config.AppConfig {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}
	return config.NewAppConfig(ctx)
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/sandevgo/topicscribe/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bot and the retention sweeper",
	Long:  `Loads the runtime .env, opens the message store and runs the Telegram bot until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// configuration decides where file logs go
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		appCfg := loadAppConfig(ctx)
		flushLog()

		ctx, flushLog = setupFileLogger(ctx, appCfg)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Str("runtime", appCfg.GetRuntimePath()).Msg("starting topicscribe")

		services := NewServices(ctx, appCfg)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("topicscribe has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/service/installer"
	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure TopicScribe interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		// run wizard (includes save step)
		state, err := installer.RunWizard()
		if err != nil {
			return err
		}

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().
			Str("provider", state.Settings.Provider).
			Str("model", state.Settings.Model).
			Int("retention_days", state.Settings.RetentionDays).
			Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'scribe start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

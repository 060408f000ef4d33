package main

import (
	"context"
	"os"

	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/service/ui"
	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "TopicScribe: conversation history for Telegram topics",
	Long:  `TopicScribe records chat and forum topic messages and answers summary, catch-up and question commands over them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}

// setupFileLogger also writes a daily log file under the runtime directory.
func setupFileLogger(ctx context.Context, cfg *config.AppConfig) (context.Context, func()) {
	opts := log.Options{Debug: debug || config.IsDebug()}
	if cfg.LogToFile {
		opts.Dir = cfg.GetLogsPath()
		opts.KeepDays = cfg.LogRetentionDays
	}
	return log.NewContextWithOptions(ctx, opts)
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{.UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}

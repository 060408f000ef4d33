package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/ui"
	"github.com/spf13/cobra"
)

var (
	chatID  int64
	topicID int64
	confirm bool
)

var errNoChat = errors.New("--chat is required")

// openStorage prepares the offline stack for a maintenance command.
func openStorage(cmd *cobra.Command) (context.Context, *storage, func(), error) {
	ctx, flushLog := setupLogger(cmd.Context())
	st, err := initStorage(ctx, loadAppConfig(ctx))
	if err != nil {
		flushLog()
		return nil, nil, nil, err
	}
	return ctx, st, flushLog, nil
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Drop messages older than the retention window now",
	Long:  `Without --chat every active store is compacted, as the periodic sweeper does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, st, flushLog, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer flushLog()

		out := cmd.OutOrStdout()
		if chatID == 0 {
			res := st.history.Sweep(ctx)
			fmt.Fprintf(out, "%s stores: %s removed: %s failed: %s\n",
				ui.TitleStyle.Render("COMPACTED"),
				ui.ValueStyle.Render(fmt.Sprint(res.Stores)),
				ui.ValueStyle.Render(fmt.Sprint(res.Removed)),
				ui.ValueStyle.Render(fmt.Sprint(res.Failed)))
			return nil
		}

		removed := st.history.Compact(ctx, core.TopicKey(chatID, topicID))
		if err := st.registry.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s removed: %s\n", ui.TitleStyle.Render("COMPACTED"), ui.ValueStyle.Render(fmt.Sprint(removed)))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored history for a chat or topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatID == 0 {
			return errNoChat
		}
		ctx, st, flushLog, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer flushLog()

		out := cmd.OutOrStdout()
		stats := st.history.Stats(ctx, chatID, topicID)
		if topicID != core.NoTopic {
			fmt.Fprintf(out, "%s %s (%s)\n", ui.TitleStyle.Render("TOPIC"), stats.Name, stats.Status)
		} else {
			fmt.Fprintf(out, "%s %d, topics: %s\n", ui.TitleStyle.Render("CHAT"), chatID, ui.ValueStyle.Render(fmt.Sprint(stats.Topics)))
		}
		fmt.Fprintf(out, "  messages: %s  stored: %s  size: %s\n",
			ui.ValueStyle.Render(fmt.Sprint(stats.MessageCount)),
			ui.ValueStyle.Render(fmt.Sprint(stats.Stored)),
			ui.ValueStyle.Render(fmt.Sprintf("%.2f MB", float64(stats.ByteSize)/(1024*1024))))

		if topicID == core.NoTopic {
			for _, meta := range st.history.Topics(chatID) {
				fmt.Fprintf(out, "  %s %-24s %-6s %d\n",
					ui.DescStyle.Render(fmt.Sprintf("#%d", meta.TopicID)), meta.Name, meta.Status, meta.MessageCount)
			}
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the history of a chat or topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatID == 0 {
			return errNoChat
		}
		if !confirm {
			return errors.New("refusing to delete history without --yes")
		}
		ctx, st, flushLog, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer flushLog()

		removed := st.history.Reset(ctx, chatID, topicID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s files removed: %s\n", ui.TitleStyle.Render("RESET"), ui.ValueStyle.Render(fmt.Sprint(removed)))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{compactCmd, statsCmd, resetCmd} {
		c.Flags().Int64Var(&chatID, "chat", 0, "chat id")
		c.Flags().Int64Var(&topicID, "topic", core.NoTopic, "forum topic id, 0 for the whole chat")
		rootCmd.AddCommand(c)
	}
	resetCmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm deletion")
}

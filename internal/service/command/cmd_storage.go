package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/topicscribe/internal/core"
)

// chatScope reports whether the command targets the whole chat: always in
// non-threaded chats, and in forums when called with "all".
func chatScope(req core.Request) bool {
	if !req.Key.Threaded() {
		return true
	}
	return len(req.Args) > 0 && strings.EqualFold(req.Args[0], "all")
}

func days(h History) int {
	return int(h.Retention().Hours() / 24)
}

func megabytes(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}

// efficiency is messages per megabyte, floored at a kilobyte of storage.
func efficiency(messages int, size int64) string {
	mb := float64(size) / 1024 / 1024
	if mb < 0.001 {
		mb = 0.001
	}
	return fmt.Sprintf("%.0f messages/MB", float64(messages)/mb)
}

type StatsCommand struct {
	history   History
	formatter *ResponseFormatter
}

func NewStatsCommand(history History) *StatsCommand {
	return &StatsCommand{
		history:   history,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show storage statistics (add \"all\" in a topic for the whole chat)"
}

func (c *StatsCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if chatScope(req) {
		s := c.history.Stats(ctx, req.Key.ChatID, core.NoTopic)
		return c.formatter.Combine(
			c.formatter.Header("📊", "Chat statistics"),
			c.formatter.Label("Total topics", fmt.Sprintf("%d", s.Topics)),
			c.formatter.Label("Total messages", fmt.Sprintf("%d", s.MessageCount)),
			c.formatter.Label("Messages stored", fmt.Sprintf("%d", s.Stored)),
			c.formatter.Label("Total storage", megabytes(s.ByteSize)),
			c.formatter.Label("Retention period", fmt.Sprintf("%d days", days(c.history))),
			c.formatter.Label("Storage efficiency", efficiency(s.MessageCount, s.ByteSize)),
		), nil
	}

	s := c.history.Stats(ctx, req.Key.ChatID, req.Key.TopicID)
	if s.ByteSize == 0 && s.MessageCount == 0 {
		return "No messages stored for this topic yet.", nil
	}

	return c.formatter.Combine(
		c.formatter.Header("📊", "Topic statistics"),
		c.formatter.Label("Topic name", s.Name),
		c.formatter.Label("Status", strings.ToUpper(s.Status)),
		c.formatter.Label("Messages", fmt.Sprintf("%d", s.MessageCount)),
		c.formatter.Label("Messages stored", fmt.Sprintf("%d", s.Stored)),
		c.formatter.Label("File size", megabytes(s.ByteSize)),
		c.formatter.Label("Retention period", fmt.Sprintf("%d days", days(c.history))),
		c.formatter.Label("Storage efficiency", efficiency(s.Stored, s.ByteSize)),
	), nil
}

type CleanupCommand struct {
	history   History
	formatter *ResponseFormatter
}

func NewCleanupCommand(history History) *CleanupCommand {
	return &CleanupCommand{
		history:   history,
		formatter: NewResponseFormatter(),
	}
}

func (c *CleanupCommand) Name() string {
	return "cleanup"
}

func (c *CleanupCommand) Description() string {
	return "Remove messages older than the retention period now"
}

func (c *CleanupCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	removed := c.history.Compact(ctx, req.Key)

	return c.formatter.Combine(
		c.formatter.Header("🧹", "Cleanup completed"),
		c.formatter.Label("Messages removed", fmt.Sprintf("%d", removed)),
		c.formatter.Label("Age", fmt.Sprintf("older than %d days", days(c.history))),
		c.formatter.Tip("Automatic cleanup runs every day to keep storage efficient."),
	), nil
}

type ResetCommand struct {
	history   History
	formatter *ResponseFormatter
}

func NewResetCommand(history History) *ResetCommand {
	return &ResetCommand{
		history:   history,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Delete stored history for this topic (\"all\" for the whole chat)"
}

func (c *ResetCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if chatScope(req) {
		deleted := c.history.Reset(ctx, req.Key.ChatID, core.NoTopic)
		return c.formatter.Combine(
			c.formatter.Header("🗑️", "Complete reset completed"),
			c.formatter.Label("Files deleted", fmt.Sprintf("%d", deleted)),
			c.formatter.Label("Topics cleared", "all topics of this chat"),
			c.formatter.Warning("This cannot be undone. All historical data is permanently removed."),
		), nil
	}

	c.history.Reset(ctx, req.Key.ChatID, req.Key.TopicID)
	return c.formatter.Combine(
		c.formatter.Header("🗑️", "Reset completed"),
		c.formatter.Label("Topic ID", fmt.Sprintf("%d", req.Key.TopicID)),
		c.formatter.Label("Action", "active and archived data deleted"),
		c.formatter.Warning("This cannot be undone. New messages will start fresh storage."),
	), nil
}

type InitCommand struct {
	history History
}

func NewInitCommand(history History) *InitCommand {
	return &InitCommand{history: history}
}

func (c *InitCommand) Name() string {
	return "init"
}

func (c *InitCommand) Description() string {
	return "Initialize storage for this chat"
}

func (c *InitCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if c.history.InitChat(ctx, req.Key.ChatID).Failed() {
		return "❌ Error initializing storage.", nil
	}
	if req.Forum {
		return "✅ Storage initialized! Topic files will be created when messages are received.", nil
	}
	return "✅ Chat storage initialized!", nil
}

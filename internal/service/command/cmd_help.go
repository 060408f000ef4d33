package command

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
)

type StartCommand struct {
	retention time.Duration
	formatter *ResponseFormatter
}

func NewStartCommand(retention time.Duration) *StartCommand {
	return &StartCommand{
		retention: retention,
		formatter: NewResponseFormatter(),
	}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Show what the assistant can do"
}

func (c *StartCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	return c.formatter.Combine(
		c.formatter.Header("🤖", "Welcome to "+core.ScribeName),
		c.formatter.Section("📊", "Conversation analysis (reply to any message)", c.formatter.List([]string{
			"`/summary` conversation summary",
			"`/missed` your personal action items",
			"`/ask <question>` questions about the conversation",
		})),
		c.formatter.Section("🎤", "Voice to text", c.formatter.List([]string{
			"Voice messages are transcribed automatically",
			"`/text` transcribes a replied voice message",
		})),
		c.formatter.Section("📈", "Storage", c.formatter.List([]string{
			"`/stats` storage statistics",
			"`/cleanup` remove old messages now",
			"`/reset` delete stored history",
			"`/init` initialize storage",
		})),
		c.formatter.Label("Message retention", fmt.Sprintf("%d days", int(c.retention.Hours()/24))),
		c.formatter.Tip("Use /help for the full command list."),
	), nil
}

type HelpCommand struct {
	commands  []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(commands []core.Command) *HelpCommand {
	return &HelpCommand{
		commands:  commands,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List commands"
}

func (c *HelpCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	items := make([]string, 0, len(c.commands)+1)
	for _, cmd := range c.commands {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}
	items = append(items, fmt.Sprintf("`/%s` %s", c.Name(), c.Description()))

	return c.formatter.Combine(
		c.formatter.Header("📖", "Command guide"),
		c.formatter.List(items),
		c.formatter.Examples([]string{
			"reply to a message + /summary",
			"reply to a message + /ask What are my tasks?",
			"reply to a voice message + /text",
		}),
		c.formatter.Tip("Analysis commands work best when you reply to the message where the topic started."),
	), nil
}

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/chatlog"
)

const noMessagesFound = "No messages found to analyze from that point onwards."

// replay loads everything from the replied message on. An empty string
// reply means records were found.
func replay(ctx context.Context, history History, req core.Request) ([]core.Record, string) {
	if !req.ReplyToID.Valid {
		return nil, ""
	}
	records := history.Query(ctx, req.Key, chatlog.QueryOptions{Marker: core.From(req.ReplyToID.ID)})
	if len(records) == 0 {
		return nil, noMessagesFound
	}
	return records, ""
}

func analyzed(n int) string {
	return fmt.Sprintf("📈 **Analyzed:** %d messages from the replied message onwards\n", n)
}

type SummaryCommand struct {
	history   History
	digest    Digester
	formatter *ResponseFormatter
}

func NewSummaryCommand(history History, digest Digester) *SummaryCommand {
	return &SummaryCommand{
		history:   history,
		digest:    digest,
		formatter: NewResponseFormatter(),
	}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Summarize the conversation from the replied message"
}

func (c *SummaryCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if !req.ReplyToID.Valid {
		return c.formatter.Combine(
			c.formatter.Header("⚠️", "Reply required"),
			c.formatter.List([]string{
				"Find the message you want to summarize from",
				"Reply to that message",
				"Type /summary and send",
			}),
			c.formatter.Tip("The summary includes every message from the replied one onwards."),
		), nil
	}

	records, empty := replay(ctx, c.history, req)
	if records == nil {
		return empty, nil
	}

	return c.formatter.Combine(
		c.formatter.Header("📊", "Conversation summary"),
		analyzed(len(records)),
		c.digest.Summarize(ctx, records),
		"",
		c.formatter.Tip("Use /missed to find your personal action items in these messages."),
	), nil
}

type MissedCommand struct {
	history   History
	digest    Digester
	formatter *ResponseFormatter
}

func NewMissedCommand(history History, digest Digester) *MissedCommand {
	return &MissedCommand{
		history:   history,
		digest:    digest,
		formatter: NewResponseFormatter(),
	}
}

func (c *MissedCommand) Name() string {
	return "missed"
}

func (c *MissedCommand) Description() string {
	return "Extract your personal action items from the replied message"
}

func (c *MissedCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if !req.ReplyToID.Valid {
		return "Please reply to a message and then use /missed to get action items from that point onwards.", nil
	}

	records, empty := replay(ctx, c.history, req)
	if records == nil {
		return empty, nil
	}

	user := req.UserName
	if user == "" {
		user = "you"
	}

	return c.formatter.Combine(
		c.formatter.Header("🎯", "Personal action items for "+user),
		analyzed(len(records)),
		c.digest.ActionItems(ctx, records, user),
		"",
		c.formatter.Tip("Use /ask if you have questions about these action items."),
	), nil
}

type AskCommand struct {
	history   History
	digest    Digester
	formatter *ResponseFormatter
}

func NewAskCommand(history History, digest Digester) *AskCommand {
	return &AskCommand{
		history:   history,
		digest:    digest,
		formatter: NewResponseFormatter(),
	}
}

func (c *AskCommand) Name() string {
	return "ask"
}

func (c *AskCommand) Description() string {
	return "Ask a question about the conversation from the replied message"
}

func (c *AskCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if !req.ReplyToID.Valid {
		return "Please reply to a message and then use /ask to ask a question based on messages from that point onwards.", nil
	}

	question := strings.TrimSpace(strings.Join(req.Args, " "))
	if question == "" {
		return c.formatter.Combine(
			"Please provide your question after the /ask command.",
			c.formatter.Examples([]string{"/ask What are my tasks?"}),
		), nil
	}

	records, empty := replay(ctx, c.history, req)
	if records == nil {
		return empty, nil
	}

	return c.formatter.Combine(
		c.formatter.Header("❓", "Answer"),
		fmt.Sprintf("🤔 **Your question:** %s\n", question),
		analyzed(len(records)),
		c.digest.Answer(ctx, records, req.UserName, question),
		"",
		c.formatter.Tip("Use /summary for a complete overview of these messages."),
	), nil
}

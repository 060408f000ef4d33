package command

import (
	"context"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/chatlog"
)

// History is the part of the chat log the commands use.
type History interface {
	Query(ctx context.Context, key core.Key, opts chatlog.QueryOptions) []core.Record
	Compact(ctx context.Context, key core.Key) int
	Reset(ctx context.Context, chatID, topicID int64) int
	Stats(ctx context.Context, chatID, topicID int64) core.Stats
	InitChat(ctx context.Context, chatID int64) core.Outcome
	Retention() time.Duration
}

// Digester produces the model-written replies.
type Digester interface {
	Summarize(ctx context.Context, records []core.Record) string
	ActionItems(ctx context.Context, records []core.Record, user string) string
	Answer(ctx context.Context, records []core.Record, user, question string) string
	Transcribe(ctx context.Context, audio []byte) (string, bool)
}

func NewCommands(history History, digest Digester) []core.Command {
	commands := []core.Command{
		NewSummaryCommand(history, digest),
		NewMissedCommand(history, digest),
		NewAskCommand(history, digest),
		NewTextCommand(digest),
		NewStatsCommand(history),
		NewCleanupCommand(history),
		NewResetCommand(history),
		NewInitCommand(history),
	}

	help := NewHelpCommand(commands)
	return append(commands, NewStartCommand(history.Retention()), help)
}

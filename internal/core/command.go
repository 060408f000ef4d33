package core

import "context"

// Request is what a chat command sees of the triggering message.
type Request struct {
	Key      Key
	UserName string
	Args     []string
	// ReplyToID is the message the command replied to, if any.
	ReplyToID ExternalID
	// Forum is set when the chat is split into topics.
	Forum bool
	// Audio holds the replied voice payload for transcription commands.
	Audio func(ctx context.Context) ([]byte, error)
}

type CmdRouter interface {
	Execute(ctx context.Context, name string, req Request) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, req Request) (string, error)
}

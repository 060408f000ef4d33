package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/topicscribe/internal/core"
)

const (
	TranscriptionFailed = "Sorry, I couldn't transcribe the voice message. Please try again or check the audio quality."
	voiceRequired       = "Please reply to a voice message to convert it to text."
)

type TextCommand struct {
	digest    Digester
	formatter *ResponseFormatter
}

func NewTextCommand(digest Digester) *TextCommand {
	return &TextCommand{
		digest:    digest,
		formatter: NewResponseFormatter(),
	}
}

func (c *TextCommand) Name() string {
	return "text"
}

func (c *TextCommand) Description() string {
	return "Transcribe the replied voice message"
}

func (c *TextCommand) Execute(ctx context.Context, req core.Request) (string, error) {
	if req.Audio == nil {
		return voiceRequired, nil
	}

	audio, err := req.Audio(ctx)
	if err != nil {
		return "", fmt.Errorf("download voice: %w", err)
	}

	text, ok := c.digest.Transcribe(ctx, audio)
	if !ok {
		return TranscriptionFailed, nil
	}

	return c.formatter.Combine(
		c.formatter.Header("🎤", "Voice message transcribed"),
		text,
		"",
		c.formatter.Tip("You can ask questions about this transcription using /ask."),
	), nil
}

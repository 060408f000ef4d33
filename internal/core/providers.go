package core

import "context"

// Generator is the generative-text service used for digests and transcription.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Transcribe(ctx context.Context, audio []byte, mimeType, prompt string) (string, error)
}

type TokenCounter interface {
	Count(text string) int
}

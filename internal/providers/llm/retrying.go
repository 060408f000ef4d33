package llm

import (
	"context"
	"errors"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
	"github.com/sandevgo/topicscribe/pkg/retry"
)

// Retrying retries transient provider failures with backoff.
type Retrying struct {
	next    core.Generator
	retrier *retry.Retrier
}

func NewRetrying(next core.Generator, retrier *retry.Retrier) *Retrying {
	return &Retrying{next: next, retrier: retrier}
}

func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.retrier.Do(ctx, func() error {
		var err error
		out, err = r.next.Generate(ctx, prompt)
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("generation attempt failed")
		}
		return err
	})
	return out, err
}

func (r *Retrying) Transcribe(ctx context.Context, audio []byte, mimeType, prompt string) (string, error) {
	var out string
	err := r.retrier.Do(ctx, func() error {
		var err error
		out, err = r.next.Transcribe(ctx, audio, mimeType, prompt)
		if errors.Is(err, ErrTranscriptionUnsupported) {
			return retry.Permanent(err)
		}
		return err
	})
	return out, err
}

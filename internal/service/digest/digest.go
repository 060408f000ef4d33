package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

const (
	DefaultPromptTokens = 12000

	// AudioMimeType is what Telegram voice notes are encoded as.
	AudioMimeType = "audio/ogg"
)

// Fixed replies shown to users when a generation fails.
const (
	SummaryFailed     = "Sorry, I couldn't generate a summary"
	ActionItemsFailed = "Sorry, I couldn't extract action items"
	AnswerFailed      = "Sorry, I couldn't process your question"
	NothingToAnalyze  = "No messages to analyze"
)

// Service turns stored conversation slices into model prompts and maps model
// failures to fixed replies. Callers pass records they already scanned, so no
// storage lock is held while the model runs.
type Service struct {
	gen      core.Generator
	counter  core.TokenCounter
	budget   int
	location *time.Location
}

type Option func(*Service)

// WithTokenBudget caps the conversation part of a prompt.
func WithTokenBudget(tokens int) Option {
	return func(s *Service) {
		if tokens > 0 {
			s.budget = tokens
		}
	}
}

func WithCounter(counter core.TokenCounter) Option {
	return func(s *Service) {
		s.counter = counter
	}
}

// WithLocation sets the zone message times are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

func NewService(gen core.Generator, opts ...Option) *Service {
	s := &Service{
		gen:      gen,
		counter:  estimator{},
		budget:   DefaultPromptTokens,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Summarize(ctx context.Context, records []core.Record) string {
	if len(records) == 0 {
		return NothingToAnalyze
	}
	return s.generate(ctx, "summary", buildSummaryPrompt(s.Transcript(records)), SummaryFailed)
}

func (s *Service) ActionItems(ctx context.Context, records []core.Record, user string) string {
	if len(records) == 0 {
		return NothingToAnalyze
	}
	return s.generate(ctx, "action_items", buildActionItemsPrompt(user, s.Transcript(records)), ActionItemsFailed)
}

func (s *Service) Answer(ctx context.Context, records []core.Record, user, question string) string {
	if len(records) == 0 {
		return NothingToAnalyze
	}
	return s.generate(ctx, "answer", buildAnswerPrompt(user, question, s.Transcript(records)), AnswerFailed)
}

func (s *Service) generate(ctx context.Context, task, prompt, apology string) string {
	logger := log.FromCtx(ctx).With().Str("task", task).Logger()

	start := time.Now()
	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		return apology
	}
	out = strings.TrimSpace(out)
	if out == "" {
		logger.Warn().Msg("generation returned empty text")
		return apology
	}

	logger.Debug().Dur("took", time.Since(start)).Int("chars", len(out)).Msg("generation done")
	return out
}

// Transcribe returns the speech in audio, or ok=false when the model failed
// or could not make it out.
func (s *Service) Transcribe(ctx context.Context, audio []byte) (string, bool) {
	logger := log.FromCtx(ctx)

	out, err := s.gen.Transcribe(ctx, audio, AudioMimeType, transcribePrompt)
	if err != nil {
		logger.Error().Err(err).Int("bytes", len(audio)).Msg("transcription failed")
		return "", false
	}

	out = strings.TrimSpace(out)
	if out == "" || strings.Contains(strings.ToLower(out), strings.ToLower(strings.TrimSuffix(UnclearAudio, "."))) {
		logger.Info().Msg("audio could not be transcribed")
		return "", false
	}
	return out, true
}

// Transcript renders records as "author (HH:MM): text" lines, dropping the
// oldest until the result fits the token budget. The newest line is always kept.
func (s *Service) Transcript(records []core.Record) string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = s.line(rec)
	}

	used := 0
	first := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		cost := s.counter.Count(lines[i]) + 1
		if used+cost > s.budget && first < len(lines) {
			break
		}
		used += cost
		first = i
	}

	return strings.Join(lines[first:], "\n")
}

func (s *Service) line(rec core.Record) string {
	name := rec.AuthorName
	if name == "" {
		name = core.UnknownName
	}
	return fmt.Sprintf("%s (%s): %s", name, rec.Timestamp.In(s.location).Format("15:04"), rec.Text)
}

package lifecycle

import (
	"context"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

// Transition reports what one lifecycle event did to the backing file and
// to the topic metadata.
type Transition struct {
	File core.Outcome
	Meta core.Outcome
}

func (t Transition) OK() bool {
	return !t.File.Failed() && !t.Meta.Failed()
}

// Manager keeps a topic's backing store in the area matching its status:
// open topics are active, closed topics are archived.
type Manager struct {
	files    core.Archiver
	registry core.TopicRegistry
}

func NewManager(files core.Archiver, registry core.TopicRegistry) *Manager {
	return &Manager{
		files:    files,
		registry: registry,
	}
}

func (m *Manager) OnCreated(ctx context.Context, key core.Key, name string) Transition {
	logger := log.FromCtx(ctx).With().Int64("chat_id", key.ChatID).Int64("topic_id", key.TopicID).Logger()

	t := Transition{
		File: m.files.Touch(key),
		Meta: m.registry.UpsertOnCreate(ctx, key, name),
	}
	if t.File.Failed() {
		logger.Error().Msg("failed to create topic store")
	}
	logger.Info().Str("name", name).Msg("topic created")
	return t
}

func (m *Manager) OnClosed(ctx context.Context, key core.Key) Transition {
	logger := log.FromCtx(ctx).With().Int64("chat_id", key.ChatID).Int64("topic_id", key.TopicID).Logger()

	t := Transition{File: m.files.MoveToArchive(ctx, key)}
	switch t.File {
	case core.OutcomeOK:
		logger.Info().Msg("topic archived")
	case core.OutcomeSkipped:
		logger.Debug().Msg("closed topic had no store to archive")
	}

	t.Meta = m.registry.MarkClosed(ctx, key)
	return t
}

func (m *Manager) OnReopened(ctx context.Context, key core.Key) Transition {
	logger := log.FromCtx(ctx).With().Int64("chat_id", key.ChatID).Int64("topic_id", key.TopicID).Logger()

	t := Transition{File: m.files.RestoreFromArchive(ctx, key)}
	switch t.File {
	case core.OutcomeOK:
		logger.Info().Msg("topic restored from archive")
	case core.OutcomeSkipped:
		switch m.files.Touch(key) {
		case core.OutcomeOK:
			logger.Warn().Msg("archived store missing for reopened topic, starting empty")
		case core.OutcomeFailed:
			t.File = core.OutcomeFailed
			logger.Error().Msg("failed to create topic store")
		}
	}

	t.Meta = m.registry.MarkReopened(ctx, key)
	return t
}

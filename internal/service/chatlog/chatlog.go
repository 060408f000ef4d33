package chatlog

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/lifecycle"
	"github.com/sandevgo/topicscribe/internal/service/retention"
	"github.com/sandevgo/topicscribe/pkg/log"
)

const generalTopicName = "General"

// Store is what the chat log needs from the backing conversation log.
type Store interface {
	core.ConversationLog
	core.Archiver
}

// Inbound is one message as delivered by the transport.
type Inbound struct {
	Key        core.Key
	AuthorID   string
	AuthorName string
	Text       string
	ExternalID core.ExternalID
}

type QueryOptions struct {
	Marker *core.Marker
	Limit  int
}

// Service is the single entry point for recording, replaying and maintaining
// chat history.
type Service struct {
	store     Store
	registry  core.TopicRegistry
	lifecycle *lifecycle.Manager
	sweeper   *retention.Sweeper
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, registry core.TopicRegistry, sweeper *retention.Sweeper, opts ...Option) *Service {
	s := &Service{
		store:     store,
		registry:  registry,
		lifecycle: lifecycle.NewManager(store, registry),
		sweeper:   sweeper,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Retention() time.Duration {
	return s.sweeper.Retention
}

// Record stores one message. Forum topics seen for the first time get default
// metadata so their counters and stats are tracked.
func (s *Service) Record(ctx context.Context, in Inbound) core.Outcome {
	if in.Key.Threaded() {
		s.registry.EnsureDefault(ctx, in.Key, defaultTopicName(in.Key.TopicID))
	}

	outcome := s.store.Append(ctx, in.Key, core.Record{
		Timestamp:  s.now(),
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		ExternalID: in.ExternalID,
		Text:       in.Text,
	})
	if !outcome.OK() {
		return outcome
	}

	if in.Key.Threaded() {
		s.registry.IncrementCount(ctx, in.Key)
	}
	return outcome
}

func defaultTopicName(topicID int64) string {
	if topicID == core.GeneralTopic {
		return generalTopicName
	}
	return fmt.Sprintf("Topic %d", topicID)
}

// Query returns the records of key inside the retention window.
func (s *Service) Query(ctx context.Context, key core.Key, opts QueryOptions) []core.Record {
	return s.store.Scan(ctx, key, core.ScanOptions{
		MaxAge: s.sweeper.Retention,
		Marker: opts.Marker,
		Limit:  opts.Limit,
	})
}

func (s *Service) OnTopicCreated(ctx context.Context, key core.Key, name string) lifecycle.Transition {
	return s.lifecycle.OnCreated(ctx, key, name)
}

func (s *Service) OnTopicClosed(ctx context.Context, key core.Key) lifecycle.Transition {
	return s.lifecycle.OnClosed(ctx, key)
}

func (s *Service) OnTopicReopened(ctx context.Context, key core.Key) lifecycle.Transition {
	return s.lifecycle.OnReopened(ctx, key)
}

// Compact applies the retention window to one store immediately.
func (s *Service) Compact(ctx context.Context, key core.Key) int {
	return s.sweeper.CompactOne(ctx, key)
}

// Sweep applies the retention window to every active store.
func (s *Service) Sweep(ctx context.Context) retention.Result {
	return s.sweeper.Sweep(ctx)
}

// Reset deletes history. With topicID set only that topic goes; with
// core.NoTopic every store and topic entry of the chat goes.
func (s *Service) Reset(ctx context.Context, chatID, topicID int64) int {
	logger := log.FromCtx(ctx).With().Int64("chat_id", chatID).Int64("topic_id", topicID).Logger()

	var removed int
	if topicID != core.NoTopic {
		key := core.TopicKey(chatID, topicID)
		removed = s.store.Remove(ctx, key)
		s.registry.Delete(ctx, key)
	} else {
		removed = s.store.RemoveChat(ctx, chatID)
		s.registry.DeleteAllForChat(ctx, chatID)
	}

	logger.Info().Int("files", removed).Msg("history reset")
	return removed
}

// Stats reports one topic, or with core.NoTopic the whole chat.
func (s *Service) Stats(ctx context.Context, chatID, topicID int64) core.Stats {
	if topicID != core.NoTopic {
		return s.topicStats(ctx, core.TopicKey(chatID, topicID))
	}

	topics := s.registry.ForChat(chatID)
	stats := core.Stats{Topics: len(topics)}
	for _, meta := range topics {
		key := meta.Key()
		stats.MessageCount += meta.MessageCount
		stats.Stored += s.store.Count(ctx, key)
		stats.ByteSize += s.store.Size(key)
	}

	chat := core.ChatKey(chatID)
	stored := s.store.Count(ctx, chat)
	stats.Stored += stored
	// Non-threaded chats have no counter of their own.
	stats.MessageCount += stored
	stats.ByteSize += s.store.Size(chat)
	return stats
}

func (s *Service) topicStats(ctx context.Context, key core.Key) core.Stats {
	stats := core.Stats{
		Name:     core.UnknownName,
		Status:   "unknown",
		Stored:   s.store.Count(ctx, key),
		ByteSize: s.store.Size(key),
	}
	if meta, ok := s.registry.Get(key); ok {
		stats.Topics = 1
		stats.Name = meta.Name
		stats.Status = string(meta.Status)
		stats.MessageCount = meta.MessageCount
	}
	return stats
}

func (s *Service) Topics(chatID int64) []core.TopicMeta {
	return s.registry.ForChat(chatID)
}

// InitChat makes sure a non-threaded chat has a store.
func (s *Service) InitChat(ctx context.Context, chatID int64) core.Outcome {
	outcome := s.store.Touch(core.ChatKey(chatID))
	if outcome.Failed() {
		log.FromCtx(ctx).Error().Int64("chat_id", chatID).Msg("failed to initialize chat store")
	}
	return outcome
}

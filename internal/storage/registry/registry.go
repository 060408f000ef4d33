package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

// Registry holds every topic's metadata in memory and mirrors the whole
// mapping to one JSON document after each mutation.
type Registry struct {
	path   string
	now    func() time.Time
	mu     sync.RWMutex
	topics map[string]core.TopicMeta
	// saveMu orders concurrent document rewrites
	saveMu sync.Mutex
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New loads the document at path. Any read or parse failure starts the
// registry empty.
func New(ctx context.Context, path string, opts ...Option) *Registry {
	r := &Registry{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.topics = r.load(ctx)
	return r
}

func (r *Registry) load(ctx context.Context) map[string]core.TopicMeta {
	logger := log.FromCtx(ctx)
	topics := make(map[string]core.TopicMeta)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error().Err(err).Str("path", r.path).Msg("failed to read topics metadata")
		}
		return topics
	}

	if err := json.Unmarshal(data, &topics); err != nil {
		logger.Error().Err(err).Str("path", r.path).Msg("failed to parse topics metadata, starting empty")
		return make(map[string]core.TopicMeta)
	}
	if topics == nil {
		topics = make(map[string]core.TopicMeta)
	}

	logger.Debug().Int("topics", len(topics)).Msg("loaded topics metadata")
	return topics
}

// Save rewrites the whole document through a temp file and rename.
func (r *Registry) Save(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.RLock()
	data, err := json.MarshalIndent(r.topics, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal topics metadata: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp metadata: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write topics metadata: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync topics metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close topics metadata: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace topics metadata: %w", err)
	}
	return nil
}

// persist saves after a mutation and folds the error into an outcome.
func (r *Registry) persist(ctx context.Context) core.Outcome {
	if err := r.Save(ctx); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("path", r.path).Msg("failed to save topics metadata")
		return core.OutcomeFailed
	}
	return core.OutcomeOK
}

func (r *Registry) Get(key core.Key) (core.TopicMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.topics[key.String()]
	return meta, ok
}

// ForChat returns the chat's topics ordered by topic id.
func (r *Registry) ForChat(chatID int64) []core.TopicMeta {
	r.mu.RLock()
	out := make([]core.TopicMeta, 0)
	for _, meta := range r.topics {
		if meta.ChatID == chatID {
			out = append(out, meta)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].TopicID < out[j].TopicID
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics)
}

func (r *Registry) fresh(key core.Key, name string) core.TopicMeta {
	return core.TopicMeta{
		TopicID:   key.TopicID,
		ChatID:    key.ChatID,
		Name:      name,
		Status:    core.StatusOpen,
		CreatedAt: core.NewTimestamp(r.now()),
	}
}

// UpsertOnCreate records a newly created topic, replacing any prior entry.
func (r *Registry) UpsertOnCreate(ctx context.Context, key core.Key, name string) core.Outcome {
	r.mu.Lock()
	r.topics[key.String()] = r.fresh(key, name)
	r.mu.Unlock()
	return r.persist(ctx)
}

// EnsureDefault creates an entry for a topic first seen through a message.
func (r *Registry) EnsureDefault(ctx context.Context, key core.Key, name string) core.Outcome {
	r.mu.Lock()
	if _, ok := r.topics[key.String()]; ok {
		r.mu.Unlock()
		return core.OutcomeSkipped
	}
	r.topics[key.String()] = r.fresh(key, name)
	r.mu.Unlock()
	return r.persist(ctx)
}

func (r *Registry) MarkClosed(ctx context.Context, key core.Key) core.Outcome {
	closedAt := core.NewTimestamp(r.now())
	return r.update(ctx, key, func(meta *core.TopicMeta) {
		meta.Status = core.StatusClosed
		meta.ClosedAt = &closedAt
	})
}

func (r *Registry) MarkReopened(ctx context.Context, key core.Key) core.Outcome {
	return r.update(ctx, key, func(meta *core.TopicMeta) {
		meta.Status = core.StatusOpen
		meta.ClosedAt = nil
	})
}

// IncrementCount bumps the lifetime message counter. Unknown keys are ignored.
func (r *Registry) IncrementCount(ctx context.Context, key core.Key) core.Outcome {
	return r.update(ctx, key, func(meta *core.TopicMeta) {
		meta.MessageCount++
	})
}

func (r *Registry) update(ctx context.Context, key core.Key, fn func(*core.TopicMeta)) core.Outcome {
	r.mu.Lock()
	meta, ok := r.topics[key.String()]
	if !ok {
		r.mu.Unlock()
		return core.OutcomeSkipped
	}
	fn(&meta)
	r.topics[key.String()] = meta
	r.mu.Unlock()
	return r.persist(ctx)
}

func (r *Registry) Delete(ctx context.Context, key core.Key) core.Outcome {
	r.mu.Lock()
	if _, ok := r.topics[key.String()]; !ok {
		r.mu.Unlock()
		return core.OutcomeSkipped
	}
	delete(r.topics, key.String())
	r.mu.Unlock()
	return r.persist(ctx)
}

func (r *Registry) DeleteAllForChat(ctx context.Context, chatID int64) core.Outcome {
	r.mu.Lock()
	removed := 0
	for k, meta := range r.topics {
		if meta.ChatID == chatID {
			delete(r.topics, k)
			removed++
		}
	}
	r.mu.Unlock()

	if removed == 0 {
		return core.OutcomeSkipped
	}
	return r.persist(ctx)
}

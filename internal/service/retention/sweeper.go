package retention

import (
	"context"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

const (
	DefaultInterval  = 24 * time.Hour
	DefaultRetention = 30 * 24 * time.Hour
)

// Result summarizes one sweep over the active area.
type Result struct {
	Stores  int
	Removed int
	Failed  int
}

// Sweeper periodically drops records older than Retention from every active
// store. Archived stores are left alone until their topic is reopened.
type Sweeper struct {
	log       core.ConversationLog
	registry  core.TopicRegistry
	Interval  time.Duration
	Retention time.Duration
}

func NewSweeper(l core.ConversationLog, registry core.TopicRegistry) *Sweeper {
	return &Sweeper{
		log:       l,
		registry:  registry,
		Interval:  DefaultInterval,
		Retention: DefaultRetention,
	}
}

// Start runs the first sweep one interval after startup, then on every tick.
func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().
		Dur("interval", s.Interval).
		Dur("retention", s.Retention).
		Msg("starting retention sweeper")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	return nil
}

// Sweep compacts every active store once. One failing store never stops the rest.
func (s *Sweeper) Sweep(ctx context.Context) Result {
	logger := log.FromCtx(ctx)

	keys, err := s.log.ActiveKeys(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to enumerate stores for cleanup")
		return Result{}
	}

	var res Result
	for _, key := range keys {
		if ctx.Err() != nil {
			logger.Warn().Int("pending", len(keys)-res.Stores).Msg("cleanup interrupted")
			break
		}

		removed, outcome := s.log.Compact(ctx, key, s.Retention)
		res.Stores++
		res.Removed += removed
		if outcome.Failed() {
			res.Failed++
		}
	}

	if err := s.registry.Save(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to save topics metadata after cleanup")
	}

	logger.Info().
		Int("stores", res.Stores).
		Int("removed", res.Removed).
		Int("failed", res.Failed).
		Msg("cleanup finished")
	return res
}

// CompactOne runs the sweep's compaction for a single key.
func (s *Sweeper) CompactOne(ctx context.Context, key core.Key) int {
	removed, _ := s.log.Compact(ctx, key, s.Retention)
	return removed
}

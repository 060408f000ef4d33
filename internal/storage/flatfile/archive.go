package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

// MoveToArchive relocates the active store of key into the archive area.
// It returns OutcomeSkipped when there is no active store. An existing archived
// store is extended rather than replaced, so only one of the two remains.
func (l *Log) MoveToArchive(ctx context.Context, key core.Key) core.Outcome {
	return l.move(ctx, key, l.layout.ActivePath(key), l.layout.ArchivedPath(key))
}

// RestoreFromArchive moves the archived store of key back to the active area.
func (l *Log) RestoreFromArchive(ctx context.Context, key core.Key) core.Outcome {
	return l.move(ctx, key, l.layout.ArchivedPath(key), l.layout.ActivePath(key))
}

func (l *Log) move(ctx context.Context, key core.Key, from, to string) core.Outcome {
	logger := log.FromCtx(ctx).With().Str("from", from).Str("to", to).Logger()

	unlock := l.locks.Lock(key)
	defer unlock()

	if _, err := os.Stat(from); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.OutcomeSkipped
		}
		logger.Error().Err(err).Msg("failed to stat store")
		return core.OutcomeFailed
	}

	if err := l.layout.Ensure(); err != nil {
		logger.Error().Err(err).Msg("failed to move store")
		return core.OutcomeFailed
	}

	if _, err := os.Stat(to); err == nil {
		if err := mergeInto(from, to); err != nil {
			logger.Error().Err(err).Msg("failed to merge store")
			return core.OutcomeFailed
		}
		logger.Warn().Msg("both active and archived stores existed, merged them")
		return core.OutcomeOK
	}

	if err := os.Rename(from, to); err != nil {
		logger.Error().Err(err).Msg("failed to move store")
		return core.OutcomeFailed
	}
	return core.OutcomeOK
}

// mergeInto appends src to dst, syncs dst, then deletes src.
func mergeInto(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	in.Close()
	return os.Remove(src)
}

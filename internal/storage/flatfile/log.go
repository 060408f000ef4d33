package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/pkg/log"
)

// maxLineSize bounds a single record line; Telegram caps text at 4096 chars.
const maxLineSize = 1 << 20

// Log is an append-only line store with one file per key.
type Log struct {
	layout Layout
	locks  *KeyLocks
	now    func() time.Time
}

type Option func(*Log)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

func NewLog(layout Layout, opts ...Option) *Log {
	l := &Log{
		layout: layout,
		locks:  NewKeyLocks(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) Layout() Layout {
	return l.layout
}

// Append writes rec and fsyncs before returning. Failures are logged, never returned.
func (l *Log) Append(ctx context.Context, key core.Key, rec core.Record) core.Outcome {
	logger := log.FromCtx(ctx).With().Int64("chat_id", key.ChatID).Int64("topic_id", key.TopicID).Logger()
	path := l.layout.ActivePath(key)

	unlock := l.locks.Lock(key)
	defer unlock()

	if err := appendLine(path, Encode(rec)); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to store message")
		return core.OutcomeFailed
	}

	logger.Debug().Str("path", path).Msg("message stored")
	return core.OutcomeOK
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync: %w", err)
	}
	return f.Close()
}

// Scan returns the key's records filtered by age and marker, oldest first.
func (l *Log) Scan(ctx context.Context, key core.Key, opts core.ScanOptions) []core.Record {
	logger := log.FromCtx(ctx)
	path := l.layout.ActivePath(key)

	unlock := l.locks.Lock(key)
	lines, err := readLines(path)
	unlock()

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error().Err(err).Str("path", path).Msg("failed to load messages")
		}
		return []core.Record{}
	}

	var cutoff time.Time
	if opts.MaxAge > 0 {
		cutoff = l.now().Add(-opts.MaxAge)
	}
	found := opts.Marker == nil

	records := make([]core.Record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, _, err := Decode(line)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping malformed line")
			continue
		}
		if !cutoff.IsZero() && rec.Timestamp.Before(cutoff) {
			continue
		}
		if !found {
			if !rec.ExternalID.Valid || rec.ExternalID.ID != opts.Marker.ID {
				continue
			}
			found = true
			if !opts.Marker.Inclusive {
				continue
			}
		}
		records = append(records, rec)
	}

	if !found {
		return []core.Record{}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[len(records)-opts.Limit:]
	}
	return records
}

// Count returns the number of decodable records currently stored, regardless of age.
func (l *Log) Count(ctx context.Context, key core.Key) int {
	return len(l.Scan(ctx, key, core.ScanOptions{}))
}

// Compact rewrites the store keeping records at or after now-maxAge.
// Malformed lines are kept verbatim and not counted. The rewrite goes through
// a temporary file so an interrupted compaction leaves the store intact.
func (l *Log) Compact(ctx context.Context, key core.Key, maxAge time.Duration) (int, core.Outcome) {
	logger := log.FromCtx(ctx).With().Int64("chat_id", key.ChatID).Int64("topic_id", key.TopicID).Logger()
	path := l.layout.ActivePath(key)

	if maxAge <= 0 {
		return 0, core.OutcomeSkipped
	}

	unlock := l.locks.Lock(key)
	defer unlock()

	lines, err := readLines(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, core.OutcomeSkipped
		}
		logger.Error().Err(err).Str("path", path).Msg("failed to read store for compaction")
		return 0, core.OutcomeFailed
	}

	cutoff := l.now().Add(-maxAge)
	kept := make([]string, 0, len(lines))
	removed := 0
	dirty := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			dirty = true
			continue
		}
		rec, _, err := Decode(line)
		if err != nil {
			kept = append(kept, line)
			continue
		}
		if rec.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, line)
	}

	if removed == 0 && !dirty {
		return 0, core.OutcomeOK
	}

	if err := rewrite(ctx, path, kept); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn().Err(err).Str("path", path).Msg("compaction interrupted, store left unchanged")
		} else {
			logger.Error().Err(err).Str("path", path).Msg("failed to rewrite store")
		}
		return 0, core.OutcomeFailed
	}

	logger.Debug().Int("removed", removed).Str("path", path).Msg("store compacted")
	return removed, core.OutcomeOK
}

func rewrite(ctx context.Context, path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			cleanup()
			return fmt.Errorf("write temp: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			cleanup()
			return fmt.Errorf("write temp: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("flush temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// readLines returns the file's lines without terminators.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Size returns the byte size of whichever of the active or archived file exists.
func (l *Log) Size(key core.Key) int64 {
	for _, path := range []string{l.layout.ActivePath(key), l.layout.ArchivedPath(key)} {
		if info, err := os.Stat(path); err == nil {
			return info.Size()
		}
	}
	return 0
}

// Touch creates an empty active store if none exists.
func (l *Log) Touch(key core.Key) core.Outcome {
	unlock := l.locks.Lock(key)
	defer unlock()
	return touch(l.layout.ActivePath(key))
}

func touch(path string) core.Outcome {
	if _, err := os.Stat(path); err == nil {
		return core.OutcomeSkipped
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return core.OutcomeFailed
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return core.OutcomeFailed
	}
	if err := f.Close(); err != nil {
		return core.OutcomeFailed
	}
	return core.OutcomeOK
}

// ActiveKeys lists every key that has a store in the active area.
func (l *Log) ActiveKeys(ctx context.Context) ([]core.Key, error) {
	entries, err := os.ReadDir(l.layout.Root())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list storage: %w", err)
	}

	var keys []core.Key
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := ParseName(e.Name())
		if !ok {
			if strings.HasSuffix(e.Name(), storeExt) {
				log.FromCtx(ctx).Warn().Str("file", e.Name()).Msg("skipping store with unrecognized name")
			}
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Remove deletes the active and archived stores of key and reports how many files went away.
func (l *Log) Remove(ctx context.Context, key core.Key) int {
	unlock := l.locks.Lock(key)
	defer unlock()

	removed := 0
	for _, path := range []string{l.layout.ActivePath(key), l.layout.ArchivedPath(key)} {
		if removeFile(ctx, path) {
			removed++
		}
	}
	return removed
}

// RemoveChat deletes every store of the chat, threaded or not, in both areas.
func (l *Log) RemoveChat(ctx context.Context, chatID int64) int {
	logger := log.FromCtx(ctx)
	removed := l.Remove(ctx, core.ChatKey(chatID))

	for _, dir := range []string{l.layout.Root(), l.layout.ArchiveRoot()} {
		matches, err := filepath.Glob(chatGlob(dir, chatID))
		if err != nil {
			logger.Error().Err(err).Str("dir", dir).Msg("failed to list chat stores")
			continue
		}
		for _, path := range matches {
			key, ok := ParseName(filepath.Base(path))
			if !ok {
				continue
			}
			unlock := l.locks.Lock(key)
			if removeFile(ctx, path) {
				removed++
			}
			unlock()
		}
	}
	return removed
}

func removeFile(ctx context.Context, path string) bool {
	err := os.Remove(path)
	if err == nil {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.FromCtx(ctx).Error().Err(err).Str("path", path).Msg("failed to delete store")
	}
	return false
}

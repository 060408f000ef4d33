package retention

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/storage/flatfile"
	"github.com/sandevgo/topicscribe/internal/storage/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func record(id int64, at time.Time) core.Record {
	return core.Record{
		Timestamp:  at,
		AuthorID:   "1",
		AuthorName: "carol",
		ExternalID: core.SomeID(id),
		Text:       "hello",
	}
}

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()

	layout := flatfile.NewLayout(filepath.Join(root, "chat_storage"))
	require.NoError(t, layout.Ensure())
	l := flatfile.NewLog(layout, flatfile.WithClock(func() time.Time { return testNow }))
	reg := registry.New(ctx, filepath.Join(root, "topics_metadata.json"))

	old := testNow.Add(-31 * 24 * time.Hour)
	topic := core.TopicKey(-100, 3)
	chat := core.ChatKey(-200)

	require.Equal(t, core.OutcomeOK, reg.UpsertOnCreate(ctx, topic, "t"))
	l.Append(ctx, topic, record(1, old))
	l.Append(ctx, topic, record(2, testNow))
	l.Append(ctx, chat, record(3, old))
	l.Append(ctx, chat, record(4, old))
	reg.IncrementCount(ctx, topic)
	reg.IncrementCount(ctx, topic)

	s := NewSweeper(l, reg)
	res := s.Sweep(ctx)

	assert.Equal(t, Result{Stores: 2, Removed: 3, Failed: 0}, res)
	assert.Equal(t, 1, l.Count(ctx, topic))
	assert.Equal(t, 0, l.Count(ctx, chat))

	// The lifetime counter is not touched by compaction.
	meta, _ := reg.Get(topic)
	assert.Equal(t, 2, meta.MessageCount)

	assert.Equal(t, Result{Stores: 2}, s.Sweep(ctx))
}

func TestSweeper_CompactOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()

	layout := flatfile.NewLayout(root)
	l := flatfile.NewLog(layout, flatfile.WithClock(func() time.Time { return testNow }))
	reg := registry.New(ctx, filepath.Join(root, "meta.json"))
	key := core.TopicKey(5, 2)

	l.Append(ctx, key, record(1, testNow.Add(-40*24*time.Hour)))
	l.Append(ctx, key, record(2, testNow.Add(-29*24*time.Hour)))

	s := NewSweeper(l, reg)
	assert.Equal(t, 1, s.CompactOne(ctx, key))
	assert.Equal(t, 0, s.CompactOne(ctx, key))
	assert.Equal(t, 0, s.CompactOne(ctx, core.TopicKey(5, 99)))

	s.Retention = 7 * 24 * time.Hour
	assert.Equal(t, 1, s.CompactOne(ctx, key))
}

type fakeLog struct {
	core.ConversationLog
	keys    []core.Key
	listErr error
	fail    map[core.Key]bool
	mu      sync.Mutex
	seen    []core.Key
}

func (f *fakeLog) ActiveKeys(ctx context.Context) ([]core.Key, error) {
	return f.keys, f.listErr
}

func (f *fakeLog) Compact(ctx context.Context, key core.Key, maxAge time.Duration) (int, core.Outcome) {
	f.mu.Lock()
	f.seen = append(f.seen, key)
	f.mu.Unlock()
	if f.fail[key] {
		return 0, core.OutcomeFailed
	}
	return 2, core.OutcomeOK
}

type fakeRegistry struct {
	core.TopicRegistry
	saves int
}

func (f *fakeRegistry) Save(ctx context.Context) error {
	f.saves++
	return errors.New("disk full")
}

func TestSweeper_IsolatesFailures(t *testing.T) {
	t.Parallel()

	bad := core.TopicKey(1, 2)
	fl := &fakeLog{
		keys: []core.Key{core.TopicKey(1, 1), bad, core.ChatKey(3)},
		fail: map[core.Key]bool{bad: true},
	}
	fr := &fakeRegistry{}

	res := NewSweeper(fl, fr).Sweep(context.Background())
	assert.Equal(t, Result{Stores: 3, Removed: 4, Failed: 1}, res)
	assert.Len(t, fl.seen, 3)
	assert.Equal(t, 1, fr.saves)
}

func TestSweeper_ListFailure(t *testing.T) {
	t.Parallel()

	fl := &fakeLog{listErr: errors.New("permission denied")}
	fr := &fakeRegistry{}

	assert.Equal(t, Result{}, NewSweeper(fl, fr).Sweep(context.Background()))
	assert.Empty(t, fl.seen)
}

func TestSweeper_StartTicksUntilCancelled(t *testing.T) {
	t.Parallel()

	fl := &fakeLog{keys: []core.Key{core.ChatKey(1)}}
	s := NewSweeper(fl, &fakeRegistry{})
	s.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool {
		fl.mu.Lock()
		defer fl.mu.Unlock()
		return len(fl.seen) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

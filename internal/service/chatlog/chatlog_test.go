package chatlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/retention"
	"github.com/sandevgo/topicscribe/internal/storage/flatfile"
	"github.com/sandevgo/topicscribe/internal/storage/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

type fixture struct {
	svc    *Service
	layout flatfile.Layout
	clock  *clock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	root := t.TempDir()
	c := &clock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}

	layout := flatfile.NewLayout(filepath.Join(root, "chat_storage"))
	require.NoError(t, layout.Ensure())
	l := flatfile.NewLog(layout, flatfile.WithClock(c.Now))
	reg := registry.New(ctx, filepath.Join(root, "topics_metadata.json"), registry.WithClock(c.Now))

	return fixture{
		svc:    NewService(l, reg, retention.NewSweeper(l, reg), WithClock(c.Now)),
		layout: layout,
		clock:  c,
	}
}

func inbound(key core.Key, id int64, text string) Inbound {
	return Inbound{
		Key:        key,
		AuthorID:   "11",
		AuthorName: "dana",
		Text:       text,
		ExternalID: core.SomeID(id),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestService_RecordAndQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := core.TopicKey(-100, 4)

	for i, text := range []string{"one", "two", "three"} {
		require.Equal(t, core.OutcomeOK, f.svc.Record(ctx, inbound(key, int64(101+i), text)))
		f.clock.now = f.clock.now.Add(time.Second)
	}

	after := f.svc.Query(ctx, key, QueryOptions{Marker: core.After(102)})
	require.Len(t, after, 1)
	assert.Equal(t, "three", after[0].Text)

	from := f.svc.Query(ctx, key, QueryOptions{Marker: core.From(102)})
	require.Len(t, from, 2)
	assert.Equal(t, "two", from[0].Text)

	last := f.svc.Query(ctx, key, QueryOptions{Limit: 2})
	require.Len(t, last, 2)
	assert.Equal(t, "two", last[0].Text)

	assert.Empty(t, f.svc.Query(ctx, key, QueryOptions{Marker: core.From(999)}))
}

func TestService_RecordCreatesDefaultMetadata(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	f.svc.Record(ctx, inbound(core.TopicKey(-100, core.GeneralTopic), 1, "hi"))
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 8), 2, "hi"))
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 8), 3, "again"))
	f.svc.Record(ctx, inbound(core.ChatKey(-100), 4, "plain"))

	topics := f.svc.Topics(-100)
	require.Len(t, topics, 2)
	assert.Equal(t, "General", topics[0].Name)
	assert.Equal(t, 1, topics[0].MessageCount)
	assert.Equal(t, "Topic 8", topics[1].Name)
	assert.Equal(t, 2, topics[1].MessageCount)
}

func TestService_QueryHonorsRetention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := core.ChatKey(55)

	f.svc.Record(ctx, inbound(key, 1, "old"))
	f.clock.now = f.clock.now.Add(31 * 24 * time.Hour)
	f.svc.Record(ctx, inbound(key, 2, "new"))

	records := f.svc.Query(ctx, key, QueryOptions{})
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Text)

	assert.Equal(t, 1, f.svc.Compact(ctx, key))
	assert.Equal(t, 0, f.svc.Compact(ctx, key))
}

func TestService_TopicLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := core.TopicKey(42, 5)

	assert.True(t, f.svc.OnTopicCreated(ctx, key, "Planning").OK())
	f.svc.Record(ctx, inbound(key, 1, "agenda"))
	assert.True(t, f.svc.OnTopicClosed(ctx, key).OK())

	assert.False(t, exists(f.layout.ActivePath(key)))
	assert.True(t, exists(f.layout.ArchivedPath(key)))

	stats := f.svc.Stats(ctx, 42, 5)
	assert.Equal(t, "closed", stats.Status)
	assert.Equal(t, 1, stats.MessageCount)
	assert.Positive(t, stats.ByteSize)

	assert.True(t, f.svc.OnTopicReopened(ctx, key).OK())
	records := f.svc.Query(ctx, key, QueryOptions{})
	require.Len(t, records, 1)
	assert.Equal(t, "agenda", records[0].Text)
}

func TestService_ResetTopic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := core.TopicKey(42, 5)

	f.svc.OnTopicCreated(ctx, key, "Planning")
	f.svc.Record(ctx, inbound(key, 1, "archived text"))
	f.svc.OnTopicClosed(ctx, key)
	// A stray active store next to the archived one is removed too.
	f.svc.Record(ctx, inbound(key, 2, "stray"))

	assert.Equal(t, 2, f.svc.Reset(ctx, 42, 5))
	assert.False(t, exists(f.layout.ActivePath(key)))
	assert.False(t, exists(f.layout.ArchivedPath(key)))

	stats := f.svc.Stats(ctx, 42, 5)
	assert.Equal(t, 0, stats.MessageCount)
	assert.Equal(t, 0, stats.Stored)
	assert.Equal(t, int64(0), stats.ByteSize)
	assert.Equal(t, core.UnknownName, stats.Name)
	assert.Equal(t, "unknown", stats.Status)
}

func TestService_ResetChat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	f.svc.OnTopicCreated(ctx, core.TopicKey(-100, 2), "a")
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 2), 1, "x"))
	f.svc.OnTopicCreated(ctx, core.TopicKey(-100, 3), "b")
	f.svc.OnTopicClosed(ctx, core.TopicKey(-100, 3))
	f.svc.Record(ctx, inbound(core.ChatKey(-100), 2, "y"))
	f.svc.Record(ctx, inbound(core.TopicKey(-1000, 2), 3, "other chat"))

	assert.Equal(t, 3, f.svc.Reset(ctx, -100, core.NoTopic))
	assert.Empty(t, f.svc.Topics(-100))
	assert.Len(t, f.svc.Topics(-1000), 1)
	assert.True(t, exists(f.layout.ActivePath(core.TopicKey(-1000, 2))))

	assert.Equal(t, core.Stats{}, f.svc.Stats(ctx, -100, core.NoTopic))
}

func TestService_ChatStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	f.svc.OnTopicCreated(ctx, core.TopicKey(-100, 2), "a")
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 2), 1, "x"))
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 2), 2, "y"))
	f.svc.Record(ctx, inbound(core.TopicKey(-100, 3), 3, "z"))
	f.svc.Record(ctx, inbound(core.ChatKey(-100), 4, "plain"))

	stats := f.svc.Stats(ctx, -100, core.NoTopic)
	assert.Equal(t, 2, stats.Topics)
	assert.Equal(t, 4, stats.MessageCount)
	assert.Equal(t, 4, stats.Stored)
	assert.Positive(t, stats.ByteSize)
}

func TestService_InitChat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	assert.Equal(t, core.OutcomeOK, f.svc.InitChat(ctx, 77))
	assert.Equal(t, core.OutcomeSkipped, f.svc.InitChat(ctx, 77))
	assert.True(t, exists(f.layout.ActivePath(core.ChatKey(77))))
}

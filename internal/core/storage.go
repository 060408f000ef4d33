package core

import (
	"context"
	"time"
)

type ScanOptions struct {
	// MaxAge drops records older than now-MaxAge. Zero disables the filter.
	MaxAge time.Duration
	Marker *Marker
	// Limit keeps only the newest Limit records. Zero means no limit.
	Limit int
}

type ConversationLog interface {
	Append(ctx context.Context, key Key, rec Record) Outcome
	Scan(ctx context.Context, key Key, opts ScanOptions) []Record
	Compact(ctx context.Context, key Key, maxAge time.Duration) (int, Outcome)
	Count(ctx context.Context, key Key) int
	Size(key Key) int64
	Touch(key Key) Outcome
	ActiveKeys(ctx context.Context) ([]Key, error)
	Remove(ctx context.Context, key Key) int
	RemoveChat(ctx context.Context, chatID int64) int
}

type Archiver interface {
	MoveToArchive(ctx context.Context, key Key) Outcome
	RestoreFromArchive(ctx context.Context, key Key) Outcome
	Touch(key Key) Outcome
}

type TopicRegistry interface {
	Get(key Key) (TopicMeta, bool)
	ForChat(chatID int64) []TopicMeta
	UpsertOnCreate(ctx context.Context, key Key, name string) Outcome
	EnsureDefault(ctx context.Context, key Key, name string) Outcome
	MarkClosed(ctx context.Context, key Key) Outcome
	MarkReopened(ctx context.Context, key Key) Outcome
	IncrementCount(ctx context.Context, key Key) Outcome
	Delete(ctx context.Context, key Key) Outcome
	DeleteAllForChat(ctx context.Context, chatID int64) Outcome
	Save(ctx context.Context) error
}

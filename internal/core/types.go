package core

import (
	"fmt"
	"time"
)

const (
	ScribeName    = "TopicScribe"
	ScribeVersion = "0.1.0"

	ScribeRepositoryURL = "https://github.com/sandevgo/topicscribe"
)

const (
	// NoTopic marks a non-threaded chat.
	NoTopic int64 = 0
	// GeneralTopic is the forum topic used when the transport gives no thread id.
	GeneralTopic int64 = 1

	BotAuthor   = "bot"
	UnknownName = "Unknown"
)

// Key addresses one conversation log and its topic metadata.
type Key struct {
	ChatID  int64
	TopicID int64
}

func ChatKey(chatID int64) Key {
	return Key{ChatID: chatID, TopicID: NoTopic}
}

func TopicKey(chatID, topicID int64) Key {
	return Key{ChatID: chatID, TopicID: topicID}
}

func (k Key) Threaded() bool {
	return k.TopicID != NoTopic
}

// String renders the registry key, "{chat_id}_{topic_id}".
func (k Key) String() string {
	return fmt.Sprintf("%d_%d", k.ChatID, k.TopicID)
}

// ExternalID is the transport's message identifier. The zero value is "absent".
type ExternalID struct {
	ID    int64
	Valid bool
}

func SomeID(id int64) ExternalID {
	return ExternalID{ID: id, Valid: true}
}

var NoID = ExternalID{}

// Record is one logged utterance. Records are immutable once appended.
type Record struct {
	Timestamp  time.Time
	AuthorID   string
	AuthorName string
	ExternalID ExternalID
	Text       string
}

// Marker selects the replay start point of a scan.
type Marker struct {
	ID int64
	// Inclusive keeps the matching record itself, otherwise only what follows it.
	Inclusive bool
}

func From(id int64) *Marker {
	return &Marker{ID: id, Inclusive: true}
}

func After(id int64) *Marker {
	return &Marker{ID: id}
}

package core

type TopicStatus string

const (
	StatusOpen   TopicStatus = "open"
	StatusClosed TopicStatus = "closed"
)

// TopicMeta is the lifecycle metadata of one (chat, topic) key. MessageCount
// is a lifetime counter: compaction never decrements it.
type TopicMeta struct {
	TopicID      int64       `json:"topic_id"`
	ChatID       int64       `json:"chat_id"`
	Name         string      `json:"name"`
	Status       TopicStatus `json:"status"`
	CreatedAt    Timestamp   `json:"created_at"`
	ClosedAt     *Timestamp  `json:"closed_at"`
	MessageCount int         `json:"message_count"`
}

func (m TopicMeta) Key() Key {
	return TopicKey(m.ChatID, m.TopicID)
}

// Stats aggregates storage figures for one topic or for a whole chat.
type Stats struct {
	Topics       int
	MessageCount int
	Stored       int
	ByteSize     int64
	Status       string
	Name         string
}

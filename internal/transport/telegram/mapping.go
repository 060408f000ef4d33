package telegram

import (
	"strconv"

	"github.com/sandevgo/topicscribe/internal/core"
	tele "gopkg.in/telebot.v3"
)

const botDisplayName = "Bot"

// keyOf maps a message to its conversation. Forum messages without a thread
// id belong to the General topic.
func keyOf(msg *tele.Message) core.Key {
	chatID := msg.Chat.ID
	if msg.ThreadID != 0 {
		return core.TopicKey(chatID, int64(msg.ThreadID))
	}
	if msg.Chat.IsForum {
		return core.TopicKey(chatID, core.GeneralTopic)
	}
	return core.ChatKey(chatID)
}

// authorOf returns the stored author id and display name.
func authorOf(msg *tele.Message) (string, string) {
	u := msg.Sender
	if u == nil {
		return core.BotAuthor, botDisplayName
	}

	id := strconv.FormatInt(u.ID, 10)
	switch {
	case u.Username != "":
		return id, u.Username
	case u.FirstName != "":
		return id, u.FirstName
	default:
		return id, core.UnknownName
	}
}

// addressedName is how the requester is called in personal digests.
func addressedName(msg *tele.Message) string {
	if u := msg.Sender; u != nil {
		if u.FirstName != "" {
			return u.FirstName
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return ""
}

func replyToID(msg *tele.Message) core.ExternalID {
	if msg.ReplyTo == nil {
		return core.NoID
	}
	// In forums every message implicitly replies to the topic's opening
	// service message, which is not a real anchor.
	if msg.ReplyTo.TopicCreated != nil {
		return core.NoID
	}
	return core.SomeID(int64(msg.ReplyTo.ID))
}

func topicName(msg *tele.Message) string {
	if msg.TopicCreated != nil && msg.TopicCreated.Name != "" {
		return msg.TopicCreated.Name
	}
	return "Topic " + strconv.Itoa(msg.ThreadID)
}

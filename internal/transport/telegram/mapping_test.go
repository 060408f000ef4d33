package telegram

import (
	"testing"

	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestKeyOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *tele.Message
		want core.Key
	}{
		{
			name: "private chat",
			msg:  &tele.Message{Chat: &tele.Chat{ID: 10}},
			want: core.ChatKey(10),
		},
		{
			name: "forum thread",
			msg:  &tele.Message{Chat: &tele.Chat{ID: -100, IsForum: true}, ThreadID: 42},
			want: core.TopicKey(-100, 42),
		},
		{
			name: "forum without thread goes to general",
			msg:  &tele.Message{Chat: &tele.Chat{ID: -100, IsForum: true}},
			want: core.TopicKey(-100, core.GeneralTopic),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, keyOf(tt.msg))
		})
	}
}

func TestAuthorOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sender   *tele.User
		wantID   string
		wantName string
	}{
		{"no sender", nil, core.BotAuthor, "Bot"},
		{"username", &tele.User{ID: 7, Username: "ann", FirstName: "Ann"}, "7", "ann"},
		{"first name", &tele.User{ID: 8, FirstName: "Bob"}, "8", "Bob"},
		{"anonymous", &tele.User{ID: 9}, "9", core.UnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, name := authorOf(&tele.Message{Sender: tt.sender})
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestAddressedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ann", addressedName(&tele.Message{Sender: &tele.User{Username: "ann", FirstName: "Ann"}}))
	assert.Equal(t, "ann", addressedName(&tele.Message{Sender: &tele.User{Username: "ann"}}))
	assert.Empty(t, addressedName(&tele.Message{}))
}

func TestReplyToID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, core.NoID, replyToID(&tele.Message{}))
	assert.Equal(t, core.SomeID(5), replyToID(&tele.Message{ReplyTo: &tele.Message{ID: 5}}))

	opening := &tele.Message{ID: 3, TopicCreated: &tele.Topic{Name: "Plans"}}
	assert.Equal(t, core.NoID, replyToID(&tele.Message{ReplyTo: opening}))
}

func TestTopicName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Plans", topicName(&tele.Message{ThreadID: 4, TopicCreated: &tele.Topic{Name: "Plans"}}))
	assert.Equal(t, "Topic 4", topicName(&tele.Message{ThreadID: 4}))
}

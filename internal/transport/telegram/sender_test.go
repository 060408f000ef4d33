package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	edit bool
	text string
	html bool
}

type fakeMessenger struct {
	calls      []sent
	rejectHTML bool
	fail       bool
}

func (f *fakeMessenger) record(edit bool, what interface{}, opts []interface{}) (*tele.Message, error) {
	html := false
	for _, o := range opts {
		if o == tele.ModeHTML {
			html = true
		}
	}
	if f.fail || (html && f.rejectHTML) {
		return nil, errors.New("bad request")
	}
	f.calls = append(f.calls, sent{edit: edit, text: what.(string), html: html})
	return &tele.Message{}, nil
}

func (f *fakeMessenger) Reply(to *tele.Message, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return f.record(false, what, opts)
}

func (f *fakeMessenger) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return f.record(true, what, opts)
}

func TestSender_ReplyHTML(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	s := newSender(m)

	require.NoError(t, s.reply(context.Background(), &tele.Message{}, "**done**"))
	require.Len(t, m.calls, 1)
	assert.True(t, m.calls[0].html)
	assert.Contains(t, m.calls[0].text, "<strong>done</strong>")
}

func TestSender_ReplyFallsBackToPlain(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{rejectHTML: true}
	s := newSender(m)

	require.NoError(t, s.reply(context.Background(), &tele.Message{}, "**done**"))
	require.Len(t, m.calls, 1)
	assert.False(t, m.calls[0].html)
	assert.Contains(t, m.calls[0].text, "done")
	assert.NotContains(t, m.calls[0].text, "<strong>")
}

func TestSender_ReplySplitsLongText(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	s := newSender(m)

	long := strings.Repeat("line of text\n", 800)
	require.NoError(t, s.reply(context.Background(), &tele.Message{}, long))
	require.Greater(t, len(m.calls), 1)
	for _, c := range m.calls {
		assert.LessOrEqual(t, len(c.text), maxTelegramMsgLen)
	}
}

func TestSender_ReplyReportsFailure(t *testing.T) {
	t.Parallel()

	s := newSender(&fakeMessenger{fail: true})
	assert.Error(t, s.reply(context.Background(), &tele.Message{}, "hello"))
}

func TestSender_Edit(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	s := newSender(m)

	require.NoError(t, s.edit(context.Background(), &tele.Message{}, "transcribed"))
	require.Len(t, m.calls, 1)
	assert.True(t, m.calls[0].edit)
	assert.True(t, m.calls[0].html)
}

package telegram

import (
	"context"

	"github.com/sandevgo/topicscribe/pkg/conv"
	"github.com/sandevgo/topicscribe/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// messenger is the part of *tele.Bot the sender needs.
type messenger interface {
	Reply(to *tele.Message, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot messenger
}

func newSender(bot messenger) *sender {
	return &sender{bot: bot}
}

// reply converts markdown to Telegram HTML and replies in chunks. A chunk
// Telegram refuses as HTML is resent as plain text.
func (s *sender) reply(ctx context.Context, to *tele.Message, md string) error {
	logger := log.FromCtx(ctx)

	for i, chunk := range conv.RenderReply(md, maxTelegramMsgLen) {
		_, err := s.bot.Reply(to, chunk.HTML, tele.ModeHTML)
		if err == nil {
			continue
		}
		logger.Warn().Err(err).Int("chunk", i).Msg("html reply rejected, sending plain text")

		if _, err := s.bot.Reply(to, chunk.Plain); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk.Plain)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// edit replaces msg with md. Only the first chunk can go into the edited
// message; the rest follow as replies to it.
func (s *sender) edit(ctx context.Context, msg *tele.Message, md string) error {
	logger := log.FromCtx(ctx)

	chunks := conv.RenderReply(md, maxTelegramMsgLen)
	if len(chunks) == 0 {
		return nil
	}

	first := chunks[0]
	if _, err := s.bot.Edit(msg, first.HTML, tele.ModeHTML); err != nil {
		logger.Warn().Err(err).Msg("html edit rejected, sending plain text")
		if _, err := s.bot.Edit(msg, first.Plain); err != nil {
			logger.Error().Err(err).Msg("failed to edit telegram message")
			return err
		}
	}

	for _, chunk := range chunks[1:] {
		if _, err := s.bot.Reply(msg, chunk.HTML, tele.ModeHTML); err != nil {
			if _, err := s.bot.Reply(msg, chunk.Plain); err != nil {
				return err
			}
		}
	}
	return nil
}

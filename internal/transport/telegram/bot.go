package telegram

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/core"
	"github.com/sandevgo/topicscribe/internal/service/chatlog"
	"github.com/sandevgo/topicscribe/internal/service/command"
	"github.com/sandevgo/topicscribe/internal/service/lifecycle"
	"github.com/sandevgo/topicscribe/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey = "base_context"

	// maxVoiceBytes bounds downloaded voice payloads.
	maxVoiceBytes = 20 << 20

	voiceProcessing = "🔄 Processing voice message, please wait..."
	voiceFailed     = "❌ Sorry, I couldn't transcribe the voice message. Please try again or check the audio quality."
	voiceError      = "❌ Error processing voice message. Please try again."
)

// History is what the bot records into.
type History interface {
	Record(ctx context.Context, in chatlog.Inbound) core.Outcome
	OnTopicCreated(ctx context.Context, key core.Key, name string) lifecycle.Transition
	OnTopicClosed(ctx context.Context, key core.Key) lifecycle.Transition
	OnTopicReopened(ctx context.Context, key core.Key) lifecycle.Transition
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, bool)
}

type Bot struct {
	bot     *tele.Bot
	history History
	router  core.CmdRouter
	voice   Transcriber
	sender  *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	history History,
	router core.CmdRouter,
	voice Transcriber,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		history: history,
		router:  router,
		voice:   voice,
		sender:  newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	for _, cmd := range router.ListCommands() {
		b.Handle("/"+cmd.Name(), bot.handleCommand(cmd.Name()))
	}

	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnVoice, bot.handleVoice)
	b.Handle(tele.OnTopicCreated, bot.handleTopicCreated)
	b.Handle(tele.OnTopicClosed, bot.handleTopicClosed)
	b.Handle(tele.OnTopicReopened, bot.handleTopicReopened)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func baseContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func (b *Bot) handleText(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Text == "" {
		return nil
	}

	// Commands are never recorded. Unregistered spellings like /Summary still route.
	if name, args, ok := command.Parse(msg.Text); ok {
		return b.runCommand(c, name, args)
	}

	ctx := baseContext(c)
	authorID, authorName := authorOf(msg)
	b.history.Record(ctx, chatlog.Inbound{
		Key:        keyOf(msg),
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       msg.Text,
		ExternalID: core.SomeID(int64(msg.ID)),
	})
	return nil
}

func (b *Bot) handleVoice(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Voice == nil {
		return nil
	}

	ctx := baseContext(c)
	logger := log.FromCtx(ctx).With().Int64("chat_id", msg.Chat.ID).Int("message_id", msg.ID).Logger()

	progress, err := b.bot.Reply(msg, voiceProcessing)
	if err != nil {
		logger.Error().Err(err).Msg("failed to send progress message")
		return nil
	}

	audio, err := b.download(msg.Voice)
	if err != nil {
		logger.Error().Err(err).Msg("failed to download voice message")
		return b.sender.edit(ctx, progress, voiceError)
	}

	text, ok := b.voice.Transcribe(ctx, audio)
	if !ok {
		return b.sender.edit(ctx, progress, voiceFailed)
	}

	authorID, authorName := authorOf(msg)
	b.history.Record(ctx, chatlog.Inbound{
		Key:        keyOf(msg),
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       "🎙️ Voice Message: " + text,
		ExternalID: core.SomeID(int64(msg.ID)),
	})
	logger.Info().Int("duration", msg.Voice.Duration).Msg("voice message transcribed and stored")

	return b.sender.edit(ctx, progress, fmt.Sprintf(
		"🎤 **VOICE MESSAGE DELIVERED**\n\n🎙️ **Duration:** %d seconds\n📝 **Transcribed text:**\n%s\n\n✅ Stored in conversation history",
		msg.Voice.Duration, text,
	))
}

func (b *Bot) download(v *tele.Voice) ([]byte, error) {
	rc, err := b.bot.File(&v.File)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxVoiceBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (b *Bot) handleCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.runCommand(c, name, c.Args())
	}
}

func (b *Bot) runCommand(c tele.Context, name string, args []string) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	ctx := baseContext(c)

	req := core.Request{
		Key:       keyOf(msg),
		UserName:  addressedName(msg),
		Args:      args,
		ReplyToID: replyToID(msg),
		Forum:     msg.Chat.IsForum,
	}
	if msg.ReplyTo != nil && msg.ReplyTo.Voice != nil {
		voice := msg.ReplyTo.Voice
		req.Audio = func(ctx context.Context) ([]byte, error) {
			return b.download(voice)
		}
	}

	_ = c.Notify(tele.Typing)

	reply, ok := b.router.Execute(ctx, name, req)
	if !ok || reply == "" {
		return nil
	}
	return b.sender.reply(ctx, msg, reply)
}

func (b *Bot) handleTopicCreated(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	b.history.OnTopicCreated(baseContext(c), keyOf(msg), topicName(msg))
	return nil
}

func (b *Bot) handleTopicClosed(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	b.history.OnTopicClosed(baseContext(c), keyOf(msg))
	return nil
}

func (b *Bot) handleTopicReopened(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	b.history.OnTopicReopened(baseContext(c), keyOf(msg))
	return nil
}

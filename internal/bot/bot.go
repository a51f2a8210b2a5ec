package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"showdrop/internal/config"
	"showdrop/internal/delivery"
	"showdrop/internal/gateway"
	"showdrop/internal/ingest"
	"showdrop/internal/logging"
	"showdrop/internal/membership"
	"showdrop/internal/notify"
)

const (
	callbackPrefix = "check:"

	usageText      = "Send /start <code> to receive an episode."
	notFoundText   = "No episode found for code %q. Check the code and try again."
	failedText     = "Delivery failed, please try again in a moment."
	joinPromptText = "You need to join the channels below before I can send you this episode. Join them, then press the confirm button."
	stillDenied    = "You have not joined all required channels yet."
)

// Bot consumes the update stream and routes each event to the right
// workflow: channel posts feed ingestion, user messages and callbacks drive
// gated delivery.
type Bot struct {
	gw        gateway.Gateway
	source    gateway.Source
	gate      *membership.Gate
	scheduler *delivery.Scheduler
	workflow  *ingest.Workflow
	notifier  notify.Service

	uploadChannel string
	logger        *slog.Logger
}

// New wires the bot loop.
func New(
	cfg *config.Config,
	gw gateway.Gateway,
	source gateway.Source,
	gate *membership.Gate,
	scheduler *delivery.Scheduler,
	workflow *ingest.Workflow,
	notifier notify.Service,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		gw:            gw,
		source:        source,
		gate:          gate,
		scheduler:     scheduler,
		workflow:      workflow,
		notifier:      notifier,
		uploadChannel: cfg.Channels.UploadChannel,
		logger:        logging.NewComponentLogger(logger, "bot"),
	}
}

// Run processes updates until the source channel closes, which happens when
// the context is canceled. Each update gets its own correlation id so the
// log lines of one interaction can be tied together.
func (b *Bot) Run(ctx context.Context) error {
	for upd := range b.source.Updates(ctx) {
		b.dispatch(logging.WithCorrelationID(ctx, uuid.NewString()), upd)
	}
	return nil
}

func (b *Bot) dispatch(ctx context.Context, upd gateway.Update) {
	switch {
	case upd.ChannelPost != nil:
		b.handleChannelPost(ctx, upd.ChannelPost)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.Callback != nil:
		b.handleCallback(ctx, upd.Callback)
	}
}

func (b *Bot) handleChannelPost(ctx context.Context, post *gateway.Message) {
	if !b.fromUploadChannel(post) {
		return
	}

	// The document filename names the episode; the caption is the fallback
	// for media without one.
	title := strings.TrimSpace(post.FileName)
	if title == "" {
		title = strings.TrimSpace(post.Caption)
	}
	if title == "" {
		if post.HasMedia {
			logger := logging.WithContext(ctx, b.logger)
			logger.Warn("upload has no filename or caption, skipping",
				logging.Int64(logging.FieldMessageID, post.ID),
			)
			// The uploader has to fix this by hand, so tell the admins.
			if err := b.notifier.NotifyUntitledUpload(ctx, post.ID); err != nil {
				logger.Warn("untitled upload notification failed", logging.Error(err))
			}
		}
		return
	}

	b.workflow.Ingest(ctx, title, post.ID)
}

func (b *Bot) fromUploadChannel(post *gateway.Message) bool {
	channel := strings.TrimSpace(b.uploadChannel)
	if username, ok := strings.CutPrefix(channel, "@"); ok {
		return strings.EqualFold(post.ChatUsername, username)
	}
	return string(post.Chat) == channel
}

func (b *Bot) handleMessage(ctx context.Context, msg *gateway.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "":
		return
	case strings.HasPrefix(text, "/start"):
		code := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
		if code == "" {
			b.reply(ctx, msg.Chat, usageText)
			return
		}
		b.handleRequest(ctx, msg.Chat, msg.FromID, code)
	case strings.HasPrefix(text, "/"):
		b.reply(ctx, msg.Chat, usageText)
	default:
		// A bare code works the same as the /start deep link.
		b.handleRequest(ctx, msg.Chat, msg.FromID, text)
	}
}

func (b *Bot) handleRequest(ctx context.Context, chat gateway.ChatRef, userID int64, rawCode string) {
	logger := logging.WithContext(ctx, b.logger)
	code := strings.ToLower(strings.TrimSpace(rawCode))

	if !b.gate.Check(ctx, userID) {
		logger.Info("request gated",
			logging.String(logging.FieldCode, code),
			logging.Int64(logging.FieldUserID, userID),
		)
		b.sendJoinPrompt(ctx, chat, code)
		return
	}

	b.deliver(ctx, chat, code)
}

func (b *Bot) handleCallback(ctx context.Context, cb *gateway.Callback) {
	logger := logging.WithContext(ctx, b.logger)

	code, ok := strings.CutPrefix(cb.Data, callbackPrefix)
	if !ok {
		if err := b.gw.AnswerCallback(ctx, cb.ID, ""); err != nil {
			logger.Warn("callback answer failed", logging.Error(err))
		}
		return
	}

	if !b.gate.Check(ctx, cb.FromID) {
		if err := b.gw.AnswerCallback(ctx, cb.ID, stillDenied); err != nil {
			logger.Warn("callback answer failed", logging.Error(err))
		}
		return
	}

	if err := b.gw.AnswerCallback(ctx, cb.ID, ""); err != nil {
		logger.Warn("callback answer failed", logging.Error(err))
	}
	// The join prompt has served its purpose.
	if err := b.gw.Delete(ctx, cb.Chat, cb.MessageID); err != nil {
		logger.Warn("join prompt delete failed",
			logging.Int64(logging.FieldMessageID, cb.MessageID),
			logging.Error(err),
		)
	}
	b.deliver(ctx, cb.Chat, code)
}

func (b *Bot) deliver(ctx context.Context, chat gateway.ChatRef, code string) {
	logger := logging.WithContext(ctx, b.logger)

	result, err := b.scheduler.Deliver(ctx, code, chat)
	switch result {
	case delivery.NotFound:
		b.reply(ctx, chat, notFoundText, code)
	case delivery.Failed:
		logger.Error("delivery failed",
			logging.String(logging.FieldCode, code),
			logging.Error(err),
		)
		if nerr := b.notifier.NotifyError(ctx, err, "delivery of "+code); nerr != nil {
			logger.Warn("delivery failure notification failed", logging.Error(nerr))
		}
		b.reply(ctx, chat, failedText)
	}
}

func (b *Bot) sendJoinPrompt(ctx context.Context, chat gateway.ChatRef, code string) {
	var rows [][]gateway.Button
	for _, channel := range b.gate.Required() {
		username, ok := strings.CutPrefix(string(channel), "@")
		if !ok {
			// Private channels have no public join link; the confirm button
			// still re-checks them.
			continue
		}
		rows = append(rows, []gateway.Button{{
			Text: "Join @" + username,
			URL:  "https://t.me/" + username,
		}})
	}
	rows = append(rows, []gateway.Button{{
		Text:         "I have joined",
		CallbackData: callbackPrefix + code,
	}})

	if _, err := b.gw.SendWithKeyboard(ctx, chat, joinPromptText, rows); err != nil {
		logging.WithContext(ctx, b.logger).Error("join prompt send failed", logging.Error(err))
	}
}

func (b *Bot) reply(ctx context.Context, chat gateway.ChatRef, format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if _, err := b.gw.Send(ctx, chat, text); err != nil {
		logging.WithContext(ctx, b.logger).Error("reply send failed", logging.Error(err))
	}
}

// Package bot routes inbound chat updates to the lifecycle engines and
// formats replies. It is deliberately thin: all rules live in service.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/zenibaba/keyauth/internal/service"
	"github.com/zenibaba/keyauth/internal/store"
	"github.com/zenibaba/keyauth/internal/telegram"
	"go.uber.org/zap"
)

// Gateway is the outbound messaging surface the bot needs.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *telegram.SendOptions) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, opts *telegram.SendOptions) error
	AnswerCallbackQuery(ctx context.Context, id string) error
}

// Bot dispatches commands and callback presses.
type Bot struct {
	keys       *service.KeyService
	users      *service.UserService
	broadcasts *service.BroadcastService
	gateway    Gateway
	// adminChat is the only chat allowed to issue commands. Zero disables
	// the gate (useful in tests).
	adminChat int64
	log       *zap.Logger
}

// New constructs the Bot.
func New(keys *service.KeyService, users *service.UserService, broadcasts *service.BroadcastService, gw Gateway, adminChat int64, log *zap.Logger) *Bot {
	return &Bot{
		keys:       keys,
		users:      users,
		broadcasts: broadcasts,
		gateway:    gw,
		adminChat:  adminChat,
		log:        log,
	}
}

// HandleUpdate processes one inbound update. It never returns an error:
// failures are reported to the chat, and gateway delivery problems are
// only logged, so the webhook can always acknowledge receipt.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && strings.HasPrefix(u.Message.Text, "/"):
		b.handleCommand(ctx, u.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *telegram.Message) {
	if !b.authorized(m.Chat.ID) {
		b.reply(ctx, m.Chat.ID, "⛔ Unauthorized", nil)
		return
	}

	parts := strings.Fields(strings.TrimSpace(m.Text))
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	text, keyboard := b.dispatch(ctx, cmd, args)
	if text != "" {
		b.reply(ctx, m.Chat.ID, text, keyboard)
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *telegram.CallbackQuery) {
	if err := b.gateway.AnswerCallbackQuery(ctx, q.ID); err != nil {
		b.log.Warn("answer callback failed", zap.Error(err))
	}
	if q.Message == nil {
		return
	}
	if !b.authorized(q.Message.Chat.ID) {
		return
	}

	text, keyboard := b.menuAction(ctx, q.Data)
	if text == "" {
		return
	}
	err := b.gateway.EditMessageText(ctx, q.Message.Chat.ID, q.Message.MessageID, text, &telegram.SendOptions{ReplyMarkup: keyboard})
	if err != nil {
		b.log.Warn("edit message failed", zap.Error(err))
	}
}

func (b *Bot) authorized(chatID int64) bool {
	return b.adminChat == 0 || chatID == b.adminChat
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboard) {
	var opts *telegram.SendOptions
	if keyboard != nil {
		opts = &telegram.SendOptions{ReplyMarkup: keyboard}
	}
	if err := b.gateway.SendMessage(ctx, chatID, text, opts); err != nil {
		b.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// errReply maps collaborator failures onto operator-facing text. A
// timeout means the write may still land server-side, so the message
// reports an unknown outcome rather than a rollback.
func errReply(err error) string {
	switch {
	case errors.Is(err, store.ErrConflict):
		return "⚠️ Another command changed the database at the same time. Resubmit."
	case errors.Is(err, context.DeadlineExceeded):
		return "⚠️ Timed out. The change may or may not have been saved, check before retrying."
	default:
		return "❌ Database error"
	}
}

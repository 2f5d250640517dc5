// Package http provides the webhook endpoint that feeds inbound chat
// updates to the bot.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zenibaba/keyauth/internal/telegram"
	"go.uber.org/zap"
)

// DefaultCommandTimeout bounds the end-to-end handling of one command. On
// expiry the operation is abandoned from the caller's perspective; the
// underlying store write may or may not have completed.
const DefaultCommandTimeout = 25 * time.Second

// BotService processes one inbound update to completion.
type BotService interface {
	HandleUpdate(ctx context.Context, u telegram.Update)
}

// WebhookHandler receives gateway deliveries.
type WebhookHandler struct {
	// Bot processes updates.
	Bot BotService
	// Timeout bounds one command; zero means DefaultCommandTimeout.
	Timeout time.Duration
	// Log records malformed deliveries.
	Log *zap.Logger
}

// Webhook handles one delivery. It always responds 200: a non-2xx here
// would make the messaging platform back off and eventually deactivate
// the webhook, so errors are reported in-chat by the bot instead.
func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.Log.Warn("malformed update", zap.Error(err))
		h.ack(w)
		return
	}

	timeout := h.Timeout
	if timeout == 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	h.Bot.HandleUpdate(ctx, update)
	h.ack(w)
}

func (h *WebhookHandler) ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handler "github.com/zenibaba/keyauth/internal/server/handler/http"
	"github.com/zenibaba/keyauth/internal/telegram"
	"go.uber.org/zap"
)

// fakeBot records the updates it was asked to handle.
type fakeBot struct {
	updates []telegram.Update
}

func (f *fakeBot) HandleUpdate(ctx context.Context, u telegram.Update) {
	f.updates = append(f.updates, u)
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	bot := &fakeBot{}
	h := &handler.WebhookHandler{Bot: bot, Log: zap.NewNop()}

	update := telegram.Update{Message: &telegram.Message{Chat: telegram.Chat{ID: 42}, Text: "/status"}}
	body, _ := json.Marshal(update)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Webhook(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if len(bot.updates) != 1 || bot.updates[0].Message == nil || bot.updates[0].Message.Text != "/status" {
		t.Errorf("updates = %+v", bot.updates)
	}
}

// Malformed payloads still get a 200: a non-2xx would make the gateway
// back off and eventually drop the webhook.
func TestWebhook_MalformedBodyStillAcks(t *testing.T) {
	bot := &fakeBot{}
	h := &handler.WebhookHandler{Bot: bot, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewBufferString("not-a-json"))
	w := httptest.NewRecorder()

	h.Webhook(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
	if len(bot.updates) != 0 {
		t.Errorf("malformed update must not be dispatched: %+v", bot.updates)
	}
}

func TestRouter_WebhookSecret(t *testing.T) {
	bot := &fakeBot{}
	h := &handler.WebhookHandler{Bot: bot, Log: zap.NewNop()}
	router := handler.NewRouter(h, "s3cret", zap.NewNop())

	body, _ := json.Marshal(telegram.Update{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing secret: status = %d; want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("with secret: status = %d; want 200", w.Code)
	}
}

func TestRouter_Healthz(t *testing.T) {
	h := &handler.WebhookHandler{Bot: &fakeBot{}, Log: zap.NewNop()}
	router := handler.NewRouter(h, "", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q", w.Body.String())
	}
}

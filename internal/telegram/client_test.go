package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL, "TOKEN")
}

func TestSendMessage_Payload(t *testing.T) {
	var path string
	var payload map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := c.SendMessage(context.Background(), 42, "*hi*", &SendOptions{ReplyMarkup: BackButton()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if payload["chat_id"] != float64(42) || payload["text"] != "*hi*" || payload["parse_mode"] != "Markdown" {
		t.Errorf("payload = %+v", payload)
	}
	if payload["reply_markup"] == nil {
		t.Error("reply_markup missing")
	}
}

func TestEditMessageText_Payload(t *testing.T) {
	var path string
	var payload map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.EditMessageText(context.Background(), 42, 7, "updated", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/botTOKEN/editMessageText" {
		t.Errorf("path = %q", path)
	}
	if payload["message_id"] != float64(7) {
		t.Errorf("payload = %+v", payload)
	}
	if _, has := payload["reply_markup"]; has {
		t.Error("nil options must not send reply_markup")
	}
}

func TestAnswerCallbackQuery_Payload(t *testing.T) {
	var payload map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.AnswerCallbackQuery(context.Background(), "cb-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["callback_query_id"] != "cb-9" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestClient_NonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	if err := c.SendMessage(context.Background(), 42, "x", nil); err == nil {
		t.Error("expected error on non-2xx status")
	}
}

package http

import (
	"net/http"

	"github.com/zenibaba/keyauth/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the HTTP surface:
//
//	POST /api/webhook → webhookHandler.Webhook (gated by the secret token)
//	GET  /healthz     → liveness probe
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger) — logs incoming requests
//  2. WebhookSecret(secret)      — rejects forged webhook calls
func NewRouter(webhookHandler *WebhookHandler, secret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.WebhookSecret(secret))
			r.Post("/webhook", webhookHandler.Webhook)
		})
	})

	return r
}

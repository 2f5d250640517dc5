// Package main starts the key-manager webhook server, wiring
// configuration, logging, the document store, the lifecycle engines,
// the messaging gateway client, and the HTTP router.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"github.com/zenibaba/keyauth/internal/bot"
	"github.com/zenibaba/keyauth/internal/config"
	"github.com/zenibaba/keyauth/internal/logger"
	"github.com/zenibaba/keyauth/internal/server/handler/http"
	"github.com/zenibaba/keyauth/internal/service"
	"github.com/zenibaba/keyauth/internal/store"
	"github.com/zenibaba/keyauth/internal/telegram"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Local .env for development; silently absent in production.
	_ = godotenv.Load()

	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Pick the document store backend.
	var documentStore service.Store
	switch options.StoreBackend {
	case "github":
		documentStore = store.NewGitHub(nil, store.GitHubConfig{
			Token:  options.GitHubToken,
			Owner:  options.GitHubOwner,
			Repo:   options.GitHubRepo,
			Branch: options.GitHubBranch,
			Path:   options.GitHubPath,
		})
	case "postgres":
		pg, err := store.OpenPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		documentStore = pg
	default:
		zapLogger.Fatal("unknown store backend", zap.String("backend", options.StoreBackend))
	}

	// Lifecycle engines.
	keyService := service.NewKeyService(documentStore, zapLogger)
	userService := service.NewUserService(documentStore, zapLogger)
	broadcastService := service.NewBroadcastService(documentStore, zapLogger)

	// Outbound messaging gateway and the command router.
	gateway := telegram.NewClient(nil, "", options.BotToken)
	commandBot := bot.New(keyService, userService, broadcastService, gateway, options.AdminChatID, zapLogger)

	// Webhook HTTP surface.
	webhookHandler := &http.WebhookHandler{Bot: commandBot, Log: zapLogger}
	router := http.NewRouter(webhookHandler, options.WebhookSecret, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting webhook server",
		zap.String("addr", options.Port),
		zap.String("store", options.StoreBackend),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}

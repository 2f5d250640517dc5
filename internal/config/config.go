// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// Config is the path to the config file.
	Config string

	// LogLevel is the zap logging level (debug, info, warn, error).
	LogLevel string

	// BotToken authenticates against the messaging gateway.
	BotToken string

	// WebhookSecret is the secret token expected on webhook deliveries.
	// Empty disables the check.
	WebhookSecret string

	// AdminChatID is the only chat allowed to issue commands. Zero
	// disables the gate.
	AdminChatID int64

	// StoreBackend selects the document store: "github" or "postgres".
	StoreBackend string

	// DatabaseDSN holds the connection string for the postgres backend.
	DatabaseDSN string

	// GitHub contents-API backend settings.
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string
	GitHubPath   string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.StoreBackend, "s", "github", "store backend: github or postgres")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional JSON config file,
// and environment variables, in that order (later sources win). It
// returns a pointer to the Options struct with the final values.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	applyEnv(options)
	return options
}

// applyEnv overrides options from environment variables where set.
func applyEnv(o *Options) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&o.Port, "SERVER_ADDRESS")
	setString(&o.LogLevel, "LOG_LEVEL")
	setString(&o.BotToken, "BOT_TOKEN")
	setString(&o.WebhookSecret, "WEBHOOK_SECRET")
	setString(&o.StoreBackend, "STORE_BACKEND")
	setString(&o.DatabaseDSN, "DATABASE_DSN")
	setString(&o.GitHubToken, "GITHUB_TOKEN")
	setString(&o.GitHubOwner, "GITHUB_REPO_OWNER")
	setString(&o.GitHubRepo, "GITHUB_REPO_NAME")
	setString(&o.GitHubBranch, "GITHUB_BRANCH")
	setString(&o.GitHubPath, "GITHUB_DB_PATH")

	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid ADMIN_CHAT_ID %q: %v", v, err)
		}
		o.AdminChatID = id
	}

	if o.GitHubBranch == "" {
		o.GitHubBranch = "main"
	}
	if o.GitHubPath == "" {
		o.GitHubPath = "db.json"
	}
}

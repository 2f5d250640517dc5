package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zenibaba/keyauth/internal/models"
)

// DefaultGitHubBaseURL is the public GitHub REST endpoint.
const DefaultGitHubBaseURL = "https://api.github.com"

// GitHubConfig describes the repository file backing the document.
type GitHubConfig struct {
	// BaseURL overrides the API endpoint; empty means DefaultGitHubBaseURL.
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	Branch  string
	// Path is the file path inside the repository, e.g. "db.json".
	Path string
}

// GitHub stores the document as a single JSON file in a repository,
// using the contents API's sha field as the version token. The API
// performs an atomic compare-and-swap keyed on that sha.
type GitHub struct {
	client *http.Client
	cfg    GitHubConfig
}

// NewGitHub creates the adapter. client may be nil to use http.DefaultClient.
func NewGitHub(client *http.Client, cfg GitHubConfig) *GitHub {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGitHubBaseURL
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &GitHub{client: client, cfg: cfg}
}

func (g *GitHub) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.cfg.BaseURL, g.cfg.Owner, g.cfg.Repo, g.cfg.Path)
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// Get fetches the document file. A 404 means the file has never been
// written and yields an empty snapshot; any other non-2xx status is a
// transport error.
func (g *GitHub) Get(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL(), nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("github get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Snapshot{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("github get: status %d", resp.StatusCode)
	}

	var payload struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Snapshot{}, fmt.Errorf("decode contents response: %w", err)
	}

	// The API wraps file content in newline-broken base64.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode file content: %w", err)
	}

	// An existing but empty file still carries a usable sha.
	if len(bytes.TrimSpace(raw)) == 0 {
		return Snapshot{Version: payload.SHA}, nil
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return Snapshot{Doc: &doc, Version: payload.SHA}, nil
}

// Put replaces the document file. version is the sha from the paired Get
// and may be empty only for the first-ever write. The contents API rejects
// a stale sha; that rejection is reported as ErrConflict.
func (g *GitHub) Put(ctx context.Context, doc *models.Document, version, changelog string) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	payload := map[string]string{
		"message": changelog,
		"content": base64.StdEncoding.EncodeToString(raw),
		"branch":  g.cfg.Branch,
	}
	if version != "" {
		payload["sha"] = version
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("github put: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		// Stale sha: someone else committed since our Get.
		return ErrConflict
	default:
		return fmt.Errorf("github put: status %d", resp.StatusCode)
	}
}

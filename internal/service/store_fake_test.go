package service

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/store"
)

// memStore implements the versioned-store contract in memory: Get hands
// out deep copies, Put succeeds only against the current version.
type memStore struct {
	doc     *models.Document
	version int
	// getErr / putErr force collaborator failures.
	getErr error
	putErr error
	// changelogs records the messages passed to successful Puts.
	changelogs []string
}

func (m *memStore) token() string {
	if m.doc == nil {
		return ""
	}
	return strconv.Itoa(m.version)
}

func (m *memStore) Get(ctx context.Context) (store.Snapshot, error) {
	if m.getErr != nil {
		return store.Snapshot{}, m.getErr
	}
	if m.doc == nil {
		return store.Snapshot{}, nil
	}
	// Deep copy so engine mutations before a failed Put cannot leak back.
	raw, err := json.Marshal(m.doc)
	if err != nil {
		return store.Snapshot{}, err
	}
	var copy models.Document
	if err := json.Unmarshal(raw, &copy); err != nil {
		return store.Snapshot{}, err
	}
	return store.Snapshot{Doc: &copy, Version: m.token()}, nil
}

func (m *memStore) Put(ctx context.Context, doc *models.Document, version, changelog string) error {
	if m.putErr != nil {
		return m.putErr
	}
	if version != m.token() {
		return store.ErrConflict
	}
	m.doc = doc
	m.version++
	m.changelogs = append(m.changelogs, changelog)
	return nil
}

// staleStore wraps a memStore but always serves a snapshot captured
// earlier, simulating a second writer that read before the first wrote.
type staleStore struct {
	inner *memStore
	snap  store.Snapshot
}

func (s *staleStore) Get(ctx context.Context) (store.Snapshot, error) {
	raw, err := json.Marshal(s.snap.Doc)
	if err != nil {
		return store.Snapshot{}, err
	}
	var copy models.Document
	if s.snap.Doc != nil {
		if err := json.Unmarshal(raw, &copy); err != nil {
			return store.Snapshot{}, err
		}
		return store.Snapshot{Doc: &copy, Version: s.snap.Version}, nil
	}
	return store.Snapshot{Version: s.snap.Version}, nil
}

func (s *staleStore) Put(ctx context.Context, doc *models.Document, version, changelog string) error {
	return s.inner.Put(ctx, doc, version, changelog)
}

func mustSnapshot(t *testing.T, m *memStore) store.Snapshot {
	t.Helper()
	snap, err := m.Get(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

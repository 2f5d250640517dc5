// Package store persists the single shared document behind a
// compare-and-swap write contract.
package store

import (
	"context"
	"errors"

	"github.com/zenibaba/keyauth/internal/models"
)

// ErrConflict is returned by Put when the store's document changed since
// the paired Get. The caller decides whether to resubmit; nothing here
// retries automatically.
var ErrConflict = errors.New("store: version conflict")

// Snapshot is one read of the document. Doc is nil when no document has
// ever been written; Version stays usable for the first Put in that case.
type Snapshot struct {
	Doc     *models.Document
	Version string
}

// VersionedStore reads and conditionally replaces the document.
//
// Put succeeds only if version still matches the store's current revision;
// otherwise it fails with ErrConflict. An empty version is valid only for
// the first-ever write. The changelog is a short human-readable summary of
// the mutation, recorded by backends that keep history.
type VersionedStore interface {
	Get(ctx context.Context) (Snapshot, error)
	Put(ctx context.Context, doc *models.Document, version, changelog string) error
}

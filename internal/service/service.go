// Package service implements the key, user, and broadcast lifecycle
// engines. Every mutating operation is one get → apply → put cycle
// against the versioned store; the apply step is a pure function of the
// document so the rules are testable without any backend.
//
// Operations do not retry on version conflict. A conflict propagates to
// the caller as store.ErrConflict and the command must be resubmitted.
package service

import (
	"context"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/store"
)

// Store defines the persistence operations required by the engines.
type Store interface {
	// Get fetches the current document snapshot.
	Get(ctx context.Context) (store.Snapshot, error)
	// Put conditionally replaces the document; fails with
	// store.ErrConflict when the version is stale.
	Put(ctx context.Context, doc *models.Document, version, changelog string) error
}

// docOrEmpty returns the snapshot's document, or a fresh empty one when
// nothing has been written yet.
func docOrEmpty(snap store.Snapshot) *models.Document {
	if snap.Doc == nil {
		return models.NewDocument()
	}
	return snap.Doc
}

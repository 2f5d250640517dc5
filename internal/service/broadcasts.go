package service

import (
	"context"
	"strings"
	"time"

	"github.com/zenibaba/keyauth/internal/models"
	"go.uber.org/zap"
)

// BroadcastService manages the notification registry.
type BroadcastService struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewBroadcastService constructs a BroadcastService over the given store.
func NewBroadcastService(st Store, log *zap.Logger) *BroadcastService {
	return &BroadcastService{store: st, log: log, now: time.Now}
}

// normalizeTarget maps operator input onto a known audience; anything
// unrecognized (including empty) falls back to ALL.
func normalizeTarget(target string) string {
	switch strings.ToUpper(target) {
	case models.TargetUser:
		return models.TargetUser
	case models.TargetVIP:
		return models.TargetVIP
	case models.TargetAdmin:
		return models.TargetAdmin
	case models.TargetOwner:
		return models.TargetOwner
	default:
		return models.TargetAll
	}
}

// Create registers a new active broadcast for the given audience.
func (s *BroadcastService) Create(ctx context.Context, target, message string) (*models.Broadcast, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	b := models.Broadcast{
		ID:        models.NewBroadcastID(),
		Title:     "Notification",
		Message:   message,
		Target:    normalizeTarget(target),
		CreatedAt: s.now(),
		Active:    true,
	}
	doc.Broadcasts = append(doc.Broadcasts, b)

	if err := s.store.Put(ctx, doc, snap.Version, "Broadcast "+b.ID); err != nil {
		return nil, models.Result{}, err
	}
	s.log.Info("broadcast created", zap.String("id", b.ID), zap.String("target", b.Target))
	return &b, models.Ok("Broadcast created"), nil
}

// List returns all broadcasts in document order. Read-only.
func (s *BroadcastService) List(ctx context.Context) ([]models.Broadcast, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return docOrEmpty(snap).Broadcasts, nil
}

// Toggle flips a broadcast's active flag and returns the new state.
func (s *BroadcastService) Toggle(ctx context.Context, id string) (bool, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return false, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	b := doc.FindBroadcast(id)
	if b == nil {
		return false, models.Fail("Broadcast not found"), nil
	}
	b.Active = !b.Active
	if err := s.store.Put(ctx, doc, snap.Version, "Toggled broadcast: "+id); err != nil {
		return false, models.Result{}, err
	}
	return b.Active, models.Ok("Broadcast toggled"), nil
}

// Delete removes a broadcast permanently.
func (s *BroadcastService) Delete(ctx context.Context, id string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	if !doc.RemoveBroadcast(id) {
		return models.Fail("Broadcast not found"), nil
	}
	if err := s.store.Put(ctx, doc, snap.Version, "Deleted broadcast: "+id); err != nil {
		return models.Result{}, err
	}
	return models.Ok("Broadcast deleted successfully"), nil
}

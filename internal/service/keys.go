package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/secure"
	"go.uber.org/zap"
)

// GenerateLimit caps how many keys one command may create.
const GenerateLimit = 50

// KeyService is the key lifecycle engine: generation, activation,
// removal, ban and unban.
type KeyService struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewKeyService constructs a KeyService over the given store.
func NewKeyService(st Store, log *zap.Logger) *KeyService {
	return &KeyService{store: st, log: log, now: time.Now}
}

// Generate creates count fresh keys with the given duration spec and
// note. count outside [1, GenerateLimit] is rejected before the store is
// touched. Generated codes are random with no uniqueness scan against
// existing keys.
func (s *KeyService) Generate(ctx context.Context, spec string, count int, note string, kind models.KeyKind) ([]models.Key, models.Result, error) {
	if count < 1 || count > GenerateLimit {
		return nil, models.Fail(fmt.Sprintf("Amount must be between 1 and %d", GenerateLimit)), nil
	}

	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	if note == "" {
		note = "Generated"
	}
	duration := models.ParseDuration(spec)
	now := s.now()

	keys := make([]models.Key, 0, count)
	for i := 0; i < count; i++ {
		k := models.Key{
			Key:           models.NewKeyCode(),
			Duration:      duration,
			Status:        models.KeyUnused,
			Note:          note,
			Type:          "USER",
			CreatedAt:     now,
			UniversalHWID: kind == models.KindUniversal,
			Reusable:      kind == models.KindReusable,
		}
		keys = append(keys, k)
	}
	doc.Keys = append(doc.Keys, keys...)

	if err := s.store.Put(ctx, doc, snap.Version, fmt.Sprintf("Generated %d keys", count)); err != nil {
		return nil, models.Result{}, err
	}

	s.log.Info("generated keys",
		zap.Int("count", count),
		zap.String("duration", duration.String()),
	)
	return keys, models.Ok(fmt.Sprintf("Generated %d keys", count)), nil
}

// Activate redeems a key into a new user account. This is the only place
// a key and a user become linked. Checks run in order: key exists, key
// not banned, key still redeemable, username free. On success a standard
// key flips to USED; reusable and universal keys stay as they are.
func (s *KeyService) Activate(ctx context.Context, code, username, password, hwid string) (*models.User, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	key := doc.FindKey(code)
	if key == nil {
		return nil, models.Fail("Invalid key"), nil
	}
	if key.Status == models.KeyBanned {
		return nil, models.Fail("Key is banned"), nil
	}
	if !key.Redeemable() {
		return nil, models.Fail("Key already used"), nil
	}
	if doc.FindUser(username) != nil {
		return nil, models.Fail("Username already exists"), nil
	}

	hash, err := secure.HashPassword(password)
	if err != nil {
		return nil, models.Result{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	rank := key.Type
	if rank == "" {
		rank = "USER"
	}

	user := models.User{
		Username:  username,
		Password:  hash,
		Rank:      rank,
		Status:    models.UserActive,
		Expiry:    key.Duration.ExpiryFrom(now),
		CreatedAt: now,
		LastLogin: now,
	}
	// Universal keys bind no device; anyone with the credentials may log in.
	if !key.UniversalHWID {
		user.HWID = &hwid
	}
	doc.Users = append(doc.Users, user)

	if !key.Reusable && !key.UniversalHWID {
		key.Status = models.KeyUsed
		key.UsedBy = &username
		key.UsedAt = &now
	}

	if err := s.store.Put(ctx, doc, snap.Version, "Activated: "+username); err != nil {
		return nil, models.Result{}, err
	}

	s.log.Info("key activated", zap.String("username", username))
	return &user, models.Ok("Account activated successfully"), nil
}

// Remove deletes a key permanently.
func (s *KeyService) Remove(ctx context.Context, code string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	if !doc.RemoveKey(code) {
		return models.Fail("Key not found"), nil
	}
	if err := s.store.Put(ctx, doc, snap.Version, "Removed key: "+code); err != nil {
		return models.Result{}, err
	}
	return models.Ok("Key removed successfully"), nil
}

// Ban sets a key's status to BANNED unconditionally.
func (s *KeyService) Ban(ctx context.Context, code string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	key := doc.FindKey(code)
	if key == nil {
		return models.Fail("Key not found"), nil
	}
	key.Status = models.KeyBanned
	if err := s.store.Put(ctx, doc, snap.Version, "Banned key: "+code); err != nil {
		return models.Result{}, err
	}
	return models.Ok("Key banned successfully"), nil
}

// Unban restores a banned key: USED when it was ever redeemed, UNUSED
// otherwise. It deliberately ignores the reusable/universal flags, so a
// redeemed reusable key comes back as USED even though redemption never
// consumed it; redemption rules still treat it as redeemable.
func (s *KeyService) Unban(ctx context.Context, code string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	key := doc.FindKey(code)
	if key == nil {
		return models.Fail("Key not found"), nil
	}
	if key.UsedBy != nil {
		key.Status = models.KeyUsed
	} else {
		key.Status = models.KeyUnused
	}
	if err := s.store.Put(ctx, doc, snap.Version, "Unbanned key: "+code); err != nil {
		return models.Result{}, err
	}
	return models.Ok("Key unbanned successfully"), nil
}

// Overview holds the counters shown by the status command.
type Overview struct {
	Users      int
	Keys       int
	UnusedKeys int
}

// Overview reports document-wide counters. Read-only.
func (s *KeyService) Overview(ctx context.Context) (Overview, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return Overview{}, err
	}
	doc := docOrEmpty(snap)

	o := Overview{Users: len(doc.Users), Keys: len(doc.Keys)}
	for i := range doc.Keys {
		if doc.Keys[i].Status == models.KeyUnused {
			o.UnusedKeys++
		}
	}
	return o, nil
}

// ListUnused returns all unused keys in document order. Read-only.
func (s *KeyService) ListUnused(ctx context.Context) ([]models.Key, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	doc := docOrEmpty(snap)

	var unused []models.Key
	for i := range doc.Keys {
		if doc.Keys[i].Status == models.KeyUnused {
			unused = append(unused, doc.Keys[i])
		}
	}
	return unused, nil
}

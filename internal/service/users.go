package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/secure"
	"go.uber.org/zap"
)

// UserService is the user lifecycle engine: login verification and the
// administrative account operations.
type UserService struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewUserService constructs a UserService over the given store.
func NewUserService(st Store, log *zap.Logger) *UserService {
	return &UserService{store: st, log: log, now: time.Now}
}

// VerifyLogin checks credentials in order: user exists, password matches,
// account not banned, HWID matches (skipped for unbound accounts), not
// expired (lifetime bypasses the check). It is read-only: LastLogin is
// not updated, so logins never contend with admin writes.
func (s *UserService) VerifyLogin(ctx context.Context, username, password, hwid string) (*models.User, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return nil, models.Fail("User not found"), nil
	}
	if !secure.VerifyPassword(password, user.Password) {
		return nil, models.Fail("Invalid password"), nil
	}
	if user.Status == models.UserBanned {
		return nil, models.Fail("Account banned"), nil
	}
	if user.HWID != nil && *user.HWID != hwid {
		return nil, models.Fail("HWID mismatch"), nil
	}
	if !user.Lifetime() && user.Expiry < s.now().Unix() {
		return nil, models.Fail("Subscription expired"), nil
	}

	u := *user
	return &u, models.Ok("Login successful"), nil
}

// ResetHWID clears the device binding so the next login rebinds freely.
// Returns the previous HWID for the operator's records.
func (s *UserService) ResetHWID(ctx context.Context, username string) (*string, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return nil, models.Fail("User not found"), nil
	}
	old := user.HWID
	user.HWID = nil
	if err := s.store.Put(ctx, doc, snap.Version, "Reset HWID: "+username); err != nil {
		return nil, models.Result{}, err
	}
	return old, models.Ok("HWID reset successfully"), nil
}

// ResetPassword replaces the user's password hash.
func (s *UserService) ResetPassword(ctx context.Context, username, newPassword string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return models.Fail("User not found"), nil
	}
	hash, err := secure.HashPassword(newPassword)
	if err != nil {
		return models.Result{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	if err := s.store.Put(ctx, doc, snap.Version, "Reset password: "+username); err != nil {
		return models.Result{}, err
	}
	return models.Ok("Password reset successfully"), nil
}

// Ban sets the account status to BANNED.
func (s *UserService) Ban(ctx context.Context, username string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return models.Fail("User not found"), nil
	}
	user.Status = models.UserBanned
	if err := s.store.Put(ctx, doc, snap.Version, "Banned user: "+username); err != nil {
		return models.Result{}, err
	}
	s.log.Info("user banned", zap.String("username", username))
	return models.Ok("User banned successfully"), nil
}

// Unban sets the account status back to ACTIVE.
func (s *UserService) Unban(ctx context.Context, username string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return models.Fail("User not found"), nil
	}
	user.Status = models.UserActive
	if err := s.store.Put(ctx, doc, snap.Version, "Unbanned user: "+username); err != nil {
		return models.Result{}, err
	}
	return models.Ok("User unbanned successfully"), nil
}

// Delete removes the account permanently. The activating key keeps its
// USED state; deletion does not free it.
func (s *UserService) Delete(ctx context.Context, username string) (models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return models.Result{}, err
	}
	doc := docOrEmpty(snap)

	if !doc.RemoveUser(username) {
		return models.Fail("User not found"), nil
	}
	if err := s.store.Put(ctx, doc, snap.Version, "Deleted user: "+username); err != nil {
		return models.Result{}, err
	}
	s.log.Info("user deleted", zap.String("username", username))
	return models.Ok("User deleted successfully"), nil
}

// Extend shifts the expiry by days*86400 seconds. Lifetime accounts are
// rejected; the sentinel is never incremented. Negative days shorten the
// subscription, this is a low-level primitive with no floor.
func (s *UserService) Extend(ctx context.Context, username string, days int) (int64, models.Result, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return 0, models.Result{}, err
	}
	doc := docOrEmpty(snap)

	user := doc.FindUser(username)
	if user == nil {
		return 0, models.Fail("User not found"), nil
	}
	if user.Lifetime() {
		return 0, models.Fail("Already lifetime"), nil
	}
	user.Expiry += int64(days) * 86400
	if err := s.store.Put(ctx, doc, snap.Version, fmt.Sprintf("Extended %s by %dd", username, days)); err != nil {
		return 0, models.Result{}, err
	}
	return user.Expiry, models.Ok(fmt.Sprintf("Extended %d days", days)), nil
}

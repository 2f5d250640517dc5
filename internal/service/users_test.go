package service

import (
	"context"
	"testing"
	"time"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/secure"
	"go.uber.org/zap"
)

func newUserService(m *memStore) *UserService {
	s := NewUserService(m, zap.NewNop())
	s.now = func() time.Time { return testTime }
	return s
}

func seedUser(t *testing.T, m *memStore, u models.User) {
	t.Helper()
	doc := models.NewDocument()
	if m.doc != nil {
		doc = m.doc
	}
	doc.Users = append(doc.Users, u)
	m.doc = doc
	if m.version == 0 {
		m.version = 1
	}
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := secure.HashPassword(pw)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestVerifyLogin_Gating(t *testing.T) {
	hw := "HW1"
	future := testTime.Unix() + 86400
	past := testTime.Unix() - 86400

	cases := []struct {
		name               string
		user               models.User
		username, pw, hwid string
		wantOK             bool
		wantMsg            string
	}{
		{
			name:     "success",
			user:     models.User{Username: "alice", Status: models.UserActive, HWID: &hw, Expiry: future},
			username: "alice", pw: "pw", hwid: "HW1",
			wantOK: true, wantMsg: "Login successful",
		},
		{
			name:     "unknown user",
			user:     models.User{Username: "alice", Status: models.UserActive, Expiry: future},
			username: "carol", pw: "pw", hwid: "HW1",
			wantMsg: "User not found",
		},
		{
			name:     "case sensitive lookup",
			user:     models.User{Username: "alice", Status: models.UserActive, Expiry: future},
			username: "Alice", pw: "pw", hwid: "HW1",
			wantMsg: "User not found",
		},
		{
			name:     "wrong password",
			user:     models.User{Username: "alice", Status: models.UserActive, HWID: &hw, Expiry: future},
			username: "alice", pw: "nope", hwid: "HW1",
			wantMsg: "Invalid password",
		},
		{
			// Banned wins even with correct credentials and hwid.
			name:     "banned",
			user:     models.User{Username: "alice", Status: models.UserBanned, HWID: &hw, Expiry: future},
			username: "alice", pw: "pw", hwid: "HW1",
			wantMsg: "Account banned",
		},
		{
			name:     "hwid mismatch",
			user:     models.User{Username: "alice", Status: models.UserActive, HWID: &hw, Expiry: future},
			username: "alice", pw: "pw", hwid: "HW2",
			wantMsg: "HWID mismatch",
		},
		{
			// nil hwid accepts any device.
			name:     "unbound hwid",
			user:     models.User{Username: "alice", Status: models.UserActive, Expiry: future},
			username: "alice", pw: "pw", hwid: "ANYTHING",
			wantOK: true, wantMsg: "Login successful",
		},
		{
			name:     "expired",
			user:     models.User{Username: "alice", Status: models.UserActive, HWID: &hw, Expiry: past},
			username: "alice", pw: "pw", hwid: "HW1",
			wantMsg: "Subscription expired",
		},
		{
			// The sentinel bypasses the expiry check entirely.
			name:     "lifetime",
			user:     models.User{Username: "alice", Status: models.UserActive, HWID: &hw, Expiry: models.LifetimeExpiry},
			username: "alice", pw: "pw", hwid: "HW1",
			wantOK: true, wantMsg: "Login successful",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &memStore{}
			tc.user.Password = hashOf(t, "pw")
			seedUser(t, m, tc.user)
			svc := newUserService(m)

			user, res, err := svc.VerifyLogin(context.Background(), tc.username, tc.pw, tc.hwid)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Success != tc.wantOK {
				t.Errorf("success = %v; want %v (%q)", res.Success, tc.wantOK, res.Message)
			}
			if res.Message != tc.wantMsg {
				t.Errorf("message = %q; want %q", res.Message, tc.wantMsg)
			}
			if tc.wantOK && user == nil {
				t.Error("successful login must return the user")
			}
			// Login is read-only: no writes, ever.
			if len(m.changelogs) != 0 {
				t.Errorf("login wrote to the store: %v", m.changelogs)
			}
		})
	}
}

func TestResetHWID(t *testing.T) {
	hw := "HW-OLD"
	m := &memStore{}
	seedUser(t, m, models.User{Username: "alice", HWID: &hw, Status: models.UserActive})
	svc := newUserService(m)

	old, res, err := svc.ResetHWID(context.Background(), "alice")
	if err != nil || !res.Success {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if old == nil || *old != "HW-OLD" {
		t.Errorf("old hwid = %v; want HW-OLD", old)
	}
	if m.doc.FindUser("alice").HWID != nil {
		t.Error("hwid not cleared")
	}

	_, res, err = svc.ResetHWID(context.Background(), "ghost")
	if err != nil || res.Success || res.Message != "User not found" {
		t.Errorf("missing user: res=%+v err=%v", res, err)
	}
}

func TestResetPassword(t *testing.T) {
	m := &memStore{}
	seedUser(t, m, models.User{Username: "alice", Password: hashOf(t, "old"), Status: models.UserActive})
	svc := newUserService(m)

	res, err := svc.ResetPassword(context.Background(), "alice", "new")
	if err != nil || !res.Success {
		t.Fatalf("res=%+v err=%v", res, err)
	}

	stored := m.doc.FindUser("alice").Password
	if !secure.VerifyPassword("new", stored) {
		t.Error("new password does not verify")
	}
	if secure.VerifyPassword("old", stored) {
		t.Error("old password still verifies")
	}
}

func TestBanUnbanDelete(t *testing.T) {
	ctx := context.Background()
	m := &memStore{}
	seedUser(t, m, models.User{Username: "alice", Status: models.UserActive})
	svc := newUserService(m)

	res, err := svc.Ban(ctx, "alice")
	if err != nil || !res.Success {
		t.Fatalf("ban: res=%+v err=%v", res, err)
	}
	if got := m.doc.FindUser("alice").Status; got != models.UserBanned {
		t.Errorf("status = %q; want BANNED", got)
	}

	res, err = svc.Unban(ctx, "alice")
	if err != nil || !res.Success {
		t.Fatalf("unban: res=%+v err=%v", res, err)
	}
	if got := m.doc.FindUser("alice").Status; got != models.UserActive {
		t.Errorf("status = %q; want ACTIVE", got)
	}

	res, err = svc.Delete(ctx, "alice")
	if err != nil || !res.Success {
		t.Fatalf("delete: res=%+v err=%v", res, err)
	}
	if m.doc.FindUser("alice") != nil {
		t.Error("alice still present after delete")
	}

	res, err = svc.Delete(ctx, "alice")
	if err != nil || res.Success {
		t.Errorf("second delete: res=%+v err=%v", res, err)
	}
}

func TestExtend(t *testing.T) {
	ctx := context.Background()

	t.Run("lifetime guard", func(t *testing.T) {
		m := &memStore{}
		seedUser(t, m, models.User{Username: "alice", Expiry: models.LifetimeExpiry, Status: models.UserActive})
		svc := newUserService(m)

		_, res, err := svc.Extend(ctx, "alice", 30)
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Message != "Already lifetime" {
			t.Errorf("res = %+v", res)
		}
		if m.doc.FindUser("alice").Expiry != models.LifetimeExpiry {
			t.Error("sentinel was modified")
		}
	})

	t.Run("adds exact seconds", func(t *testing.T) {
		start := testTime.Unix()
		m := &memStore{}
		seedUser(t, m, models.User{Username: "alice", Expiry: start, Status: models.UserActive})
		svc := newUserService(m)

		newExpiry, res, err := svc.Extend(ctx, "alice", 7)
		if err != nil || !res.Success {
			t.Fatalf("res=%+v err=%v", res, err)
		}
		if want := start + 7*86400; newExpiry != want {
			t.Errorf("expiry = %d; want %d", newExpiry, want)
		}
	})

	t.Run("negative days shorten", func(t *testing.T) {
		start := testTime.Unix()
		m := &memStore{}
		seedUser(t, m, models.User{Username: "alice", Expiry: start, Status: models.UserActive})
		svc := newUserService(m)

		newExpiry, res, err := svc.Extend(ctx, "alice", -3)
		if err != nil || !res.Success {
			t.Fatalf("res=%+v err=%v", res, err)
		}
		if want := start - 3*86400; newExpiry != want {
			t.Errorf("expiry = %d; want %d", newExpiry, want)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		m := &memStore{}
		seedUser(t, m, models.User{Username: "alice", Expiry: 1, Status: models.UserActive})
		svc := newUserService(m)

		_, res, err := svc.Extend(ctx, "ghost", 7)
		if err != nil || res.Success || res.Message != "User not found" {
			t.Errorf("res=%+v err=%v", res, err)
		}
	})
}

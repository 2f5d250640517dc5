// Package models defines the persisted document and its entities:
// license keys, user accounts, and broadcast notifications.
package models

import (
	"time"
)

// LifetimeExpiry is the sentinel expiry marking a never-expiring account.
// It is never incremented; extension of a lifetime account is rejected.
const LifetimeExpiry int64 = 9999999999999

// Key status values.
const (
	KeyUnused = "UNUSED"
	KeyUsed   = "USED"
	KeyBanned = "BANNED"
)

// User status values.
const (
	UserActive = "ACTIVE"
	UserBanned = "BANNED"
)

// Broadcast target audiences.
const (
	TargetAll   = "ALL"
	TargetUser  = "USER"
	TargetVIP   = "VIP"
	TargetAdmin = "ADMIN"
	TargetOwner = "OWNER"
)

// KeyKind selects how a generated key may be redeemed.
type KeyKind int

const (
	// KindStandard keys are consumed by the first successful activation.
	KindStandard KeyKind = iota
	// KindUniversal keys create accounts without HWID binding and are
	// never marked used.
	KindUniversal
	// KindReusable keys may be redeemed by unlimited distinct accounts.
	KindReusable
)

// Key is a redeemable license code.
type Key struct {
	// Key is the unique code, format "ZEXXY-XXXX-XXXX-XXXX".
	Key string `json:"key"`
	// Duration is the subscription length granted on activation.
	Duration Duration `json:"duration_days"`
	// Status is one of UNUSED, USED, BANNED.
	Status string `json:"status"`
	// Note is free-form operator text attached at generation time.
	Note string `json:"note"`
	// Type is the rank tag copied onto activated accounts.
	Type string `json:"type"`
	// CreatedAt is the generation timestamp.
	CreatedAt time.Time `json:"created_at"`
	// UsedBy holds the redeeming username once a standard key is consumed.
	UsedBy *string `json:"used_by"`
	// UsedAt holds the redemption timestamp once a standard key is consumed.
	UsedAt *time.Time `json:"used_at"`
	// UniversalHWID marks a key whose accounts accept login from any device.
	UniversalHWID bool `json:"universal_hwid"`
	// Reusable marks a key redeemable more than once.
	Reusable bool `json:"reusable"`
}

// Redeemable reports whether the key can still activate an account.
func (k *Key) Redeemable() bool {
	if k.Status == KeyBanned {
		return false
	}
	return k.Status != KeyUsed || k.Reusable || k.UniversalHWID
}

// UserStats holds optional per-user counters.
type UserStats struct {
	Generated int `json:"generated"`
	Success   int `json:"success"`
	Failed    int `json:"failed"`
}

// RarityID is an optional collectible entry on a user record.
type RarityID struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// User is an activated account.
type User struct {
	// Username is unique; lookups are case-sensitive everywhere.
	Username string `json:"username"`
	// Password is the encoded argon2id hash, never the plaintext.
	Password string `json:"password"`
	// HWID is the bound device identifier. nil means the account accepts
	// login from any device (set when activated via a universal key).
	HWID *string `json:"hwid"`
	// Rank is the tag copied from the activating key.
	Rank string `json:"rank"`
	// Status is ACTIVE or BANNED.
	Status string `json:"status"`
	// Expiry is unix seconds, or LifetimeExpiry.
	Expiry int64 `json:"expiry"`

	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`

	Stats     *UserStats `json:"stats,omitempty"`
	RarityIDs []RarityID `json:"rarity_ids,omitempty"`
}

// Lifetime reports whether the account never expires.
func (u *User) Lifetime() bool {
	return u.Expiry == LifetimeExpiry
}

// Broadcast is a notification record shown to clients.
type Broadcast struct {
	// ID is the unique identifier, format "BR-######".
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	// Target is the audience: ALL, USER, VIP, ADMIN, OWNER.
	Target    string    `json:"target"`
	Link      *string   `json:"link"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// Document is the single persisted aggregate. It is owned by the store;
// engines hold a copy only for the duration of one operation.
type Document struct {
	Keys       []Key       `json:"keys"`
	Users      []User      `json:"users"`
	Broadcasts []Broadcast `json:"broadcasts"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Keys:       []Key{},
		Users:      []User{},
		Broadcasts: []Broadcast{},
	}
}

// FindKey returns a pointer into Keys for the given code, or nil.
func (d *Document) FindKey(code string) *Key {
	for i := range d.Keys {
		if d.Keys[i].Key == code {
			return &d.Keys[i]
		}
	}
	return nil
}

// FindUser returns a pointer into Users for the given username, or nil.
// The match is case-sensitive.
func (d *Document) FindUser(username string) *User {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i]
		}
	}
	return nil
}

// FindBroadcast returns a pointer into Broadcasts for the given id, or nil.
func (d *Document) FindBroadcast(id string) *Broadcast {
	for i := range d.Broadcasts {
		if d.Broadcasts[i].ID == id {
			return &d.Broadcasts[i]
		}
	}
	return nil
}

// RemoveKey splices the key out of the document. Returns false if absent.
func (d *Document) RemoveKey(code string) bool {
	for i := range d.Keys {
		if d.Keys[i].Key == code {
			d.Keys = append(d.Keys[:i], d.Keys[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveUser splices the user out of the document. Returns false if absent.
func (d *Document) RemoveUser(username string) bool {
	for i := range d.Users {
		if d.Users[i].Username == username {
			d.Users = append(d.Users[:i], d.Users[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBroadcast splices the broadcast out of the document. Returns false if absent.
func (d *Document) RemoveBroadcast(id string) bool {
	for i := range d.Broadcasts {
		if d.Broadcasts[i].ID == id {
			d.Broadcasts = append(d.Broadcasts[:i], d.Broadcasts[i+1:]...)
			return true
		}
	}
	return false
}

// Result is the outcome of one engine operation. Expected domain failures
// (bad input, missing records) are reported here, not as Go errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Ok returns a successful Result with the given message.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed Result with the given message.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

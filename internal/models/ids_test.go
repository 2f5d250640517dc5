package models

import (
	"regexp"
	"testing"
)

var (
	keyCodePattern     = regexp.MustCompile(`^ZEXXY-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	broadcastIDPattern = regexp.MustCompile(`^BR-[1-9][0-9]{5}$`)
)

func TestNewKeyCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewKeyCode()
		if !keyCodePattern.MatchString(code) {
			t.Fatalf("bad key code %q", code)
		}
	}
}

// Generation performs no uniqueness scan against existing keys; the
// 36^12 space makes a birthday collision negligible at admin-tool scale.
// This test documents the trade-off rather than guaranteeing uniqueness.
func TestNewKeyCode_NoObviousRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := NewKeyCode()
		if seen[code] {
			t.Fatalf("duplicate key code %q after %d draws", code, i)
		}
		seen[code] = true
	}
}

func TestNewBroadcastID_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewBroadcastID()
		if !broadcastIDPattern.MatchString(id) {
			t.Fatalf("bad broadcast id %q", id)
		}
	}
}

package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	keyPrefix   = "ZEXXY"
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randInt returns a uniform random int in [0, n).
func randInt(n int64) int {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// nothing sensible can be generated at that point.
		panic(fmt.Sprintf("models: rand: %v", err))
	}
	return int(v.Int64())
}

// NewKeyCode generates a fresh key code, "ZEXXY-XXXX-XXXX-XXXX" with
// twelve random A-Z0-9 characters. There is no uniqueness check against
// existing keys.
func NewKeyCode() string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	for i := 0; i < 12; i++ {
		if i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(keyAlphabet[randInt(int64(len(keyAlphabet)))])
	}
	return b.String()
}

// NewBroadcastID generates a broadcast id "BR-######" with a random
// six-digit suffix. Same no-collision-check caveat as NewKeyCode.
func NewBroadcastID() string {
	return fmt.Sprintf("BR-%06d", 100000+randInt(900000))
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Duration is a subscription length: a whole number of days or lifetime.
// It serializes as a JSON number, or the string "LIFETIME".
type Duration struct {
	days     int
	lifetime bool
}

// Days returns a fixed-length duration of n days.
func Days(n int) Duration {
	return Duration{days: n}
}

// Lifetime returns the never-expiring duration.
func Lifetime() Duration {
	return Duration{lifetime: true}
}

// IsLifetime reports whether the duration never expires.
func (d Duration) IsLifetime() bool {
	return d.lifetime
}

// DayCount returns the number of days. Zero for lifetime.
func (d Duration) DayCount() int {
	if d.lifetime {
		return 0
	}
	return d.days
}

// ExpiryFrom computes the account expiry granted by this duration,
// as unix seconds relative to now, or the lifetime sentinel.
func (d Duration) ExpiryFrom(now time.Time) int64 {
	if d.lifetime {
		return LifetimeExpiry
	}
	return now.Unix() + int64(d.days)*86400
}

func (d Duration) String() string {
	if d.lifetime {
		return "LIFETIME"
	}
	return fmt.Sprintf("%dd", d.days)
}

// MarshalJSON encodes the duration as a day count or "LIFETIME".
func (d Duration) MarshalJSON() ([]byte, error) {
	if d.lifetime {
		return []byte(`"LIFETIME"`), nil
	}
	return json.Marshal(d.days)
}

// UnmarshalJSON accepts a JSON number of days or the string "LIFETIME".
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "LIFETIME" {
			return fmt.Errorf("invalid duration %q", s)
		}
		*d = Lifetime()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Days(n)
	return nil
}

// ParseDuration parses an operator-supplied duration spec: "lifetime",
// or an integer with a d/w/m/y unit ("3d", "2w", "1m", "1y"). Anything
// unrecognized defaults to 30 days.
func ParseDuration(s string) Duration {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "lifetime" {
		return Lifetime()
	}

	n := 0
	digits := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits = true
	}
	if !digits {
		return Days(30)
	}

	switch {
	case strings.ContainsRune(s, 'd'):
		return Days(n)
	case strings.ContainsRune(s, 'w'):
		return Days(n * 7)
	case strings.ContainsRune(s, 'm'):
		return Days(n * 30)
	case strings.ContainsRune(s, 'y'):
		return Days(n * 365)
	}
	return Days(30)
}

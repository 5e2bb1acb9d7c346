// Package daily selects a deterministic "target of the day".
//
// Every player sees the same target for a given UTC date; the index is
// HMAC(salt, YYYY-MM-DD) reduced modulo the catalog size, so targets cannot be
// predicted without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt []byte, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, salt)
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker implements game.Picker with the daily index.
type Picker struct {
	Salt []byte
	Now  func() time.Time // defaults to time.Now
}

// Pick returns today's index in [0, n).
func (p Picker) Pick(n int) int {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return Index(now(), p.Salt, n)
}

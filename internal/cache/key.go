// SPDX-License-Identifier: MIT

package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives an opaque cache key from its parts. Parts are hashed so that
// secrets embedded in them (a Wi-Fi password inside a payload) never sit in
// the key space in clear text.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

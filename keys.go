package tiercache

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// maxKeyLen bounds the literal form before keys fall back to hashing.
const maxKeyLen = 200

// Key derives a cache key from explicit parts, e.g.
// Key("menu", userID, locale). Overlong keys are replaced by a prefix plus
// a short hash so the shared store never sees unbounded key sizes.
func Key(parts ...string) string {
	k := strings.Join(parts, ":")
	if len(k) <= maxKeyLen {
		return k
	}
	sum := sha256.Sum256([]byte(k))
	return fmt.Sprintf("%s:%x", k[:maxKeyLen-17], sum)[:maxKeyLen]
}

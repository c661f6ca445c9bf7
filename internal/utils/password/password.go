package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// MinLength is the shortest password accepted for a password change.
const MinLength = 6

// Hasher produces the salted SHA-256 hex digests the forum has always
// stored. The format is fixed: existing accounts must keep verifying.
type Hasher struct {
	salt string
	// allowLegacy accepts stored values that are the plaintext password
	// itself, as written by the first version of the backend.
	allowLegacy bool
}

func NewHasher(salt string, allowLegacy bool) *Hasher {
	return &Hasher{salt: salt, allowLegacy: allowLegacy}
}

// HashPassword returns hex(sha256(password + salt)).
func (h *Hasher) HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password + h.salt))
	return hex.EncodeToString(sum[:])
}

// Verify checks password against the stored value. needsUpgrade is true
// when the match was against a legacy plaintext value and the caller
// should persist a fresh hash.
func (h *Hasher) Verify(password, stored string) (ok bool, needsUpgrade bool) {
	if equal(h.HashPassword(password), stored) {
		return true, false
	}
	if h.allowLegacy && equal(password, stored) {
		return true, true
	}
	return false, false
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

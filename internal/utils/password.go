package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// The userinfo table predates this service and holds three credential
// generations: plain text, unsalted SHA-256, and bcrypt. Verification
// is polymorphic over all three; successful logins are upgraded to
// bcrypt by the auth handler so the legacy forms die out over time.

var sha256Hex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// looksLikeBcrypt reports whether stored is a bcrypt digest.
func looksLikeBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// looksLikeSHA256 reports whether stored is an unsalted hex SHA-256.
func looksLikeSHA256(stored string) bool {
	return len(stored) == 64 && sha256Hex.MatchString(strings.ToLower(stored))
}

// VerifyPassword checks plain against a stored credential of any
// generation. It returns whether the password matches and whether the
// stored form is legacy and should be re-hashed to bcrypt.
func VerifyPassword(stored, plain string) (ok, needsUpgrade bool) {
	stored = strings.TrimSpace(stored)
	plain = strings.TrimSpace(plain)
	switch {
	case looksLikeBcrypt(stored):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	case looksLikeSHA256(stored):
		sum := sha256.Sum256([]byte(plain))
		digest := hex.EncodeToString(sum[:])
		match := subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1
		return match, match
	default:
		match := subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
		return match, match
	}
}

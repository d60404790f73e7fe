package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // random token identifiers
	"crypto/sha256" // SHA-256 hashing for stored session tokens
	"encoding/hex"  // hex encoding for digests
	"errors"        // sentinel for invalid tokens
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken is a signed bearer credential along with its expiry. The
// Raw field is returned to the client; the database stores only the
// SHA-256 hash of Raw, so a leaked tokens table cannot be replayed.
type SessionToken struct {
	Raw string    // the serialized signed token
	Exp time.Time // the UTC expiration time
}

// ErrInvalidToken is returned when a credential fails signature or
// claim validation.
var ErrInvalidToken = errors.New("invalid token")

// NewSessionToken builds and signs an HS256 token for a user. The
// claims carry the subject, role, expiry and issued-at; the session row
// keyed by the token's hash remains the authority for revocation, so
// the claims are informational.
func NewSessionToken(secret string, userID uint64, role string, ttl time.Duration) (SessionToken, error) {
	exp := time.Now().UTC().Add(ttl)
	// The random jti makes every issued token distinct, so replacing a
	// session always invalidates the previous credential's hash even
	// when two logins land in the same second.
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return SessionToken{}, err
	}
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
		"jti":  hex.EncodeToString(jti),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Raw: signed, Exp: exp}, nil
}

// VerifySessionToken checks the signature and standard claims of a raw
// credential. It does not consult the session store; callers do that
// with the hash.
func VerifySessionToken(secret, raw string) error {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}

// HashTokenRaw returns the SHA-256 hash of the raw credential as a hex
// string. Storing only the hash prevents attackers from using stolen
// database rows as live sessions.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

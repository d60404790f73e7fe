package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPasswordBcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	ok, upgrade := VerifyPassword(hash, "s3cret")
	assert.True(t, ok)
	assert.False(t, upgrade, "bcrypt is already the target form")

	ok, _ = VerifyPassword(hash, "wrong")
	assert.False(t, ok)
}

func TestVerifyPasswordSHA256Legacy(t *testing.T) {
	sum := sha256.Sum256([]byte("s3cret"))
	stored := hex.EncodeToString(sum[:])

	ok, upgrade := VerifyPassword(stored, "s3cret")
	assert.True(t, ok)
	assert.True(t, upgrade, "legacy sha256 must be upgraded")

	ok, upgrade = VerifyPassword(stored, "wrong")
	assert.False(t, ok)
	assert.False(t, upgrade, "no upgrade on failed verification")
}

func TestVerifyPasswordPlainLegacy(t *testing.T) {
	ok, upgrade := VerifyPassword("s3cret", "s3cret")
	assert.True(t, ok)
	assert.True(t, upgrade)

	ok, _ = VerifyPassword("s3cret", "other")
	assert.False(t, ok)
}

func TestVerifyPasswordDetection(t *testing.T) {
	// 64 hex chars are treated as a digest, never as a plain password,
	// so the literal string does not match itself.
	sum := sha256.Sum256([]byte("x"))
	stored := hex.EncodeToString(sum[:])
	ok, _ := VerifyPassword(stored, stored)
	assert.False(t, ok)

	ok, _ = VerifyPassword(stored, "x")
	assert.True(t, ok)
}

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, upgrade := VerifyPassword(hash, "correct horse")
	assert.True(t, ok)
	assert.False(t, upgrade)
}

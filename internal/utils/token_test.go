package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-raw-token")
	h2 := HashToken("some-raw-token")
	h3 := HashToken("other-token")

	assert.Equal(t, h1, h2, "hashing must be deterministic")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64, "SHA-256 hex digest is 64 chars")
}

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	access, err := NewAccessToken(secret, 42, "Customer", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 2*time.Second)

	tok, err := jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "Customer", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken("right-secret", 1, "Admin", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	r1, err := NewRefreshToken(7)
	require.NoError(t, err)
	r2, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.NotEqual(t, r1.Raw, r2.Raw, "tokens must be unique")
	assert.Len(t, r1.Raw, 96, "48 random bytes hex-encoded")
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), r1.Exp, 2*time.Second)
}

func TestNewResetToken(t *testing.T) {
	raw, exp, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64, "32 random bytes hex-encoded")
	assert.WithinDuration(t, time.Now().UTC().Add(ResetTokenTTL), exp, 2*time.Second)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4) // minimum cost keeps the test fast
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret!"))
}

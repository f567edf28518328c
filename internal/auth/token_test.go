package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tok, err := IssueToken(testSecret, 42, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	// Expiry is ten hours out, give or take scheduling slack.
	assert.WithinDuration(t, time.Now().UTC().Add(TokenTTL), tok.Exp, time.Minute)

	claims, err := VerifyToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := IssueToken(testSecret, 1, "a@x.com")
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := VerifyToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "raw=%q", raw)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	// Mint a token that expired an hour ago with the same claim layout.
	claims := jwt.MapClaims{
		"user_id": float64(7),
		"email":   "old@x.com",
		"iat":     time.Now().UTC().Add(-11 * time.Hour).Unix(),
		"exp":     time.Now().UTC().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	claims := jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().UTC().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("p", 4) // minimum cost keeps the test fast
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)

	assert.True(t, VerifyPassword(hash, "p"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", "p"))
}

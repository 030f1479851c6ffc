package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-test-secret")

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	token, err := NewSessionToken("42", "user@example.com", secret, now)
	require.NoError(t, err)

	claims, err := SessionClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.WithinDuration(t, now.Add(SessionTTL), claims.ExpiresAt.Time, time.Second)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	token, err := NewSessionToken("42", "user@example.com", secret, time.Now().UTC().Add(-2*SessionTTL))
	require.NoError(t, err)

	_, err = SessionClaimsFromToken(token, secret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	token, err := NewSessionToken("42", "user@example.com", secret, time.Now().UTC())
	require.NoError(t, err)

	_, err = SessionClaimsFromToken(token, []byte("other-secret"))
	require.Error(t, err)
}

func TestWrongAlgorithmRejected(t *testing.T) {
	t.Parallel()

	// Unsigned token claiming alg "none".
	token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = SessionClaimsFromToken(signed, secret)
	require.Error(t, err)
}

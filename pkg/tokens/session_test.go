package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	exp := time.Now().Add(time.Hour)

	signed, claims, err := NewSessionToken("42", "user@example.com", exp, secret)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, claims.ID)

	parsed, err := SessionClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", parsed.Subject)
	assert.Equal(t, "user@example.com", parsed.Email)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := SessionClaimsFromToken("not-a-jwt", secret)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed, _, err := NewSessionToken("1", "a@b.co", time.Now().Add(time.Hour), secret)
		require.NoError(t, err)

		_, err = SessionClaimsFromToken(signed, []byte("other-secret"))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		signed, _, err := NewSessionToken("1", "a@b.co", time.Now().Add(-time.Minute), secret)
		require.NoError(t, err)

		_, err = SessionClaimsFromToken(signed, secret)
		assert.Error(t, err)
	})
}

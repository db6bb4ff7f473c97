package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)

	require.True(t, CheckPassword(hash, "admin123"))
	require.False(t, CheckPassword(hash, "admin124"))
}

func TestTokenRoundTrip(t *testing.T) {
	signed, claims, err := GenerateToken("secret", 7, "linh", "staff", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, claims.SessionID())

	parsed, err := ParseToken("secret", signed)
	require.NoError(t, err)
	require.Equal(t, uint(7), parsed.UserID)
	require.Equal(t, "linh", parsed.Username)
	require.Equal(t, "staff", parsed.Role)
	require.Equal(t, claims.SessionID(), parsed.SessionID())
}

func TestTokenRejected(t *testing.T) {
	signed, _, err := GenerateToken("secret", 1, "admin", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", signed)
	require.Error(t, err)

	expired, _, err := GenerateToken("secret", 1, "admin", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	require.Error(t, err)

	_, err = ParseToken("secret", "not.a.token")
	require.Error(t, err)
}

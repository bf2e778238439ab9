package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-valorant-client/session"
)

func mintToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestNewAccessToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token := session.NewAccessToken("Bearer", "T", "I", 600*time.Second, now)

	require.Equal(t, "Bearer T", token.Encoded())
	require.Equal(t, "I", token.IDToken)

	// 600s lifetime less the 30s safety margin.
	require.True(t, token.Expiration.After(now.Add(569*time.Second)))
	require.True(t, token.Expiration.Before(now.Add(571*time.Second)))
}

func TestAccessTokenHasExpired(t *testing.T) {
	expiration := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token := session.AccessToken{Expiration: expiration}

	require.False(t, token.HasExpiredAt(expiration.Add(-time.Second)))
	require.True(t, token.HasExpiredAt(expiration.Add(time.Second)))
}

func TestAccessTokenUserID(t *testing.T) {
	t.Run("derives the subject claim", func(t *testing.T) {
		want := uuid.New()
		token := session.AccessToken{Token: mintToken(t, jwtlib.MapClaims{"sub": want.String()})}

		got, err := token.UserID()
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("rejects a non-uuid subject", func(t *testing.T) {
		token := session.AccessToken{Token: mintToken(t, jwtlib.MapClaims{"sub": "not-a-uuid"})}
		_, err := token.UserID()
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		token := session.AccessToken{Token: "garbage"}
		_, err := token.UserID()
		require.Error(t, err)
	})
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	m := NewManager(Config{Secret: "test-secret", TTL: time.Hour})

	t.Run("issue and verify roundtrip", func(t *testing.T) {
		token, err := m.Issue("alice")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, err := m.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "alice", userID)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewManager(Config{Secret: "other-secret", TTL: time.Hour})
		token, err := other.Issue("alice")
		require.NoError(t, err)

		_, err = m.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := NewManager(Config{Secret: "test-secret", TTL: -time.Minute})
		token, err := expired.Issue("alice")
		require.NoError(t, err)

		_, err = m.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

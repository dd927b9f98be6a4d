package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthProvider(t *testing.T) {
	ctx := context.Background()
	provider, err := NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	t.Run("mint and verify", func(t *testing.T) {
		token, err := provider.MintToken("member-1", RolePlayer, time.Hour)
		require.NoError(t, err)

		claims, err := provider.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "member-1", claims.Subject)
		assert.Equal(t, RolePlayer, claims.Role)
		assert.False(t, claims.IsGM())
	})

	t.Run("game master role", func(t *testing.T) {
		token, err := provider.MintToken("gm-1", RoleGM, time.Hour)
		require.NoError(t, err)

		claims, err := provider.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.True(t, claims.IsGM())
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := provider.MintToken("member-1", RolePlayer, -time.Minute)
		require.NoError(t, err)

		_, err = provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTAuthProvider("other-secret")
		require.NoError(t, err)

		token, err := other.MintToken("member-1", RolePlayer, time.Hour)
		require.NoError(t, err)

		_, err = provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := provider.VerifyToken(ctx, "not-a-token")
		assert.Error(t, err)
	})

	t.Run("unknown role rejected at mint", func(t *testing.T) {
		_, err := provider.MintToken("member-1", "admin", time.Hour)
		assert.Error(t, err)
	})

	t.Run("empty subject rejected at mint", func(t *testing.T) {
		_, err := provider.MintToken("", RolePlayer, time.Hour)
		assert.Error(t, err)
	})
}

func TestNewJWTAuthProviderEmptySecret(t *testing.T) {
	_, err := NewJWTAuthProvider("")
	assert.Error(t, err)
}

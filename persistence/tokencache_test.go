package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnse-connect/internal/auth"
)

func newTestCache(t *testing.T) *TokenCache {
	t.Helper()
	cache, err := OpenTokenCache(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestTokenCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	cred := auth.Credential{
		JWT:          "jwt-token",
		JWTExpiresAt: time.Now().Add(8 * time.Hour),
		TradingToken: "trading-token",
	}
	require.NoError(t, cache.Save("user", cred))

	loaded, ok, err := cache.Load("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "jwt-token", loaded.JWT)
	assert.Equal(t, "trading-token", loaded.TradingToken)
	assert.WithinDuration(t, cred.JWTExpiresAt, loaded.JWTExpiresAt, time.Second)
}

func TestTokenCacheMissingUser(t *testing.T) {
	cache := newTestCache(t)

	_, ok, err := cache.Load("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenCacheDropsExpired(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Save("user", auth.Credential{
		JWT:          "stale",
		JWTExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, ok, err := cache.Load("user")
	require.NoError(t, err)
	assert.False(t, ok)

	// The expired entry is gone, a second load does not see it either.
	_, ok, _ = cache.Load("user")
	assert.False(t, ok)
}

func TestTokenCacheDelete(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Save("user", auth.Credential{
		JWT:          "jwt",
		JWTExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, cache.Delete("user"))

	_, ok, err := cache.Load("user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenCacheOverwrite(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Save("user", auth.Credential{
		JWT:          "first",
		JWTExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, cache.Save("user", auth.Credential{
		JWT:          "second",
		JWTExpiresAt: time.Now().Add(time.Hour),
	}))

	loaded, ok, err := cache.Load("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", loaded.JWT)
}

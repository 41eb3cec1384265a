package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRevocationRepo(t *testing.T) (RevocationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationRepository(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	repo, mr := newRevocationRepo(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	created, err := repo.Revoke(ctx, "jti-1", 2*time.Minute)
	require.NoError(t, err)
	assert.True(t, created)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, mr.Exists("blacklist:jti-1"))
	assert.Equal(t, 2*time.Minute, mr.TTL("blacklist:jti-1"))
}

func TestRevokeTwiceReportsExisting(t *testing.T) {
	repo, _ := newRevocationRepo(t)
	ctx := context.Background()

	created, err := repo.Revoke(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.Revoke(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRevokeEntryExpires(t *testing.T) {
	repo, mr := newRevocationRepo(t)
	ctx := context.Background()

	_, err := repo.Revoke(ctx, "jti-3", time.Minute)
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)

	revoked, err := repo.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeNonPositiveTTLIsNoop(t *testing.T) {
	repo, mr := newRevocationRepo(t)
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		created, err := repo.Revoke(ctx, "jti-4", ttl)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.False(t, mr.Exists("blacklist:jti-4"))
}

func TestRevocationStoreUnavailable(t *testing.T) {
	repo, mr := newRevocationRepo(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "jti-5")
	assert.Error(t, err)

	_, err = repo.Revoke(context.Background(), "jti-5", time.Minute)
	assert.Error(t, err)
}

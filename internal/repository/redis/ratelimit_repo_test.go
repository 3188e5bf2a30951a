package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimitRepositorySlidingWindow(t *testing.T) {
	mr, client := setupRedis(t)
	base := time.Now()
	now := base
	repo := NewRateLimitRepository(client, "login", 3, 5*time.Minute)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := repo.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
		now = now.Add(time.Minute)
	}

	d, err := repo.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 3, d.Limit)
	assert.Equal(t, 2*time.Minute, d.RetryAfter)

	members, err := mr.ZMembers("ratelimit:login:1.2.3.4")
	require.NoError(t, err)
	assert.Len(t, members, 3, "rejected attempt is not stored")

	d, err = repo.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	now = base.Add(5*time.Minute + time.Second)
	d, err = repo.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimitRepositoryFailsOpen(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewRateLimitRepository(client, "api", 1, time.Minute)
	mr.Close()

	d, err := repo.Allow(context.Background(), "c")
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}

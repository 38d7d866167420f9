package cron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisclient "github.com/foguel/delivery-backend/pkg/redis"
)

func newRedisClient(t *testing.T) (*redisclient.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return redisclient.NewFromRaw(raw), mr
}

func TestRedisLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	client, mr := newRedisClient(t)

	first, err := NewRedisLock(client, "", time.Hour)
	require.NoError(t, err)
	second, err := NewRedisLock(client, "", time.Hour)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists(client.LockKey(DefaultLockName)))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, second.Release(ctx))
	require.True(t, mr.Exists(client.LockKey(DefaultLockName)))

	require.NoError(t, first.Release(ctx))
	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLockDoesNotReleaseForeignOwner(t *testing.T) {
	ctx := context.Background()
	client, mr := newRedisClient(t)

	lock, err := NewRedisLock(client, "jobs", time.Minute)
	require.NoError(t, err)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	other, err := NewRedisLock(client, "jobs", time.Minute)
	require.NoError(t, err)
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Release(ctx))
	require.True(t, mr.Exists(client.LockKey("jobs")))
}

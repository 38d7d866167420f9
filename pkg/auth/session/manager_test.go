package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisclient "github.com/foguel/delivery-backend/pkg/redis"
)

func newManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	manager, err := NewManager(redisclient.NewFromRaw(raw))
	require.NoError(t, err)
	return manager, mr
}

func TestManagerOpenAndRevoke(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	require.NoError(t, manager.Open(ctx, "jti-1", "admin", time.Now().Add(time.Hour)))

	active, err := manager.Active(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, active)

	require.NoError(t, manager.Revoke(ctx, "jti-1"))
	active, err = manager.Active(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, active)
}

func TestManagerSessionExpires(t *testing.T) {
	ctx := context.Background()
	manager, mr := newManager(t)

	require.NoError(t, manager.Open(ctx, "jti-2", "collab", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	active, err := manager.Active(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, active)
}

func TestManagerRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	require.Error(t, manager.Open(ctx, "", "x", time.Now().Add(time.Hour)))
	require.Error(t, manager.Open(ctx, "jti", "x", time.Now().Add(-time.Minute)))
	require.Error(t, manager.Revoke(ctx, " "))

	active, err := manager.Active(ctx, "")
	require.NoError(t, err)
	require.False(t, active)

	_, err = NewManager(nil)
	require.Error(t, err)
}

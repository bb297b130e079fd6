package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Manager 测试
// =============================================================================

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Manager) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	config := Config{
		Addr: mr.Addr(),
		DB:   0,
	}

	manager, err := NewManager(config, zap.NewNop())
	require.NoError(t, err)

	return mr, manager
}

func TestNewManager(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	assert.NotNil(t, manager.redis)
	assert.NotNil(t, manager.logger)
}

func TestNewManager_ConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewManager(Config{Addr: addr}, nil)
	assert.Error(t, err)
}

func TestManager_HSetAndHGet(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()

	require.NoError(t, manager.HSet(ctx, "routes", "alice", "node-a"))

	value, err := manager.HGet(ctx, "routes", "alice")
	require.NoError(t, err)
	assert.Equal(t, "node-a", value)

	// 数据确实写入了哈希
	assert.Equal(t, "node-a", mr.HGet("routes", "alice"))
}

func TestManager_HGetMiss(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()

	_, err := manager.HGet(ctx, "routes", "missing")
	assert.True(t, IsCacheMiss(err))

	mr.HSet("routes", "alice", "node-a")
	_, err = manager.HGet(ctx, "routes", "bob")
	assert.True(t, IsCacheMiss(err))
}

func TestManager_HDel(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()

	require.NoError(t, manager.HSet(ctx, "routes", "alice", "node-a"))
	require.NoError(t, manager.HSet(ctx, "routes", "bob", "node-b"))
	require.NoError(t, manager.HDel(ctx, "routes", "alice"))
	require.NoError(t, manager.HDel(ctx, "routes"))

	_, err := manager.HGet(ctx, "routes", "alice")
	assert.True(t, IsCacheMiss(err))

	value, err := manager.HGet(ctx, "routes", "bob")
	require.NoError(t, err)
	assert.Equal(t, "node-b", value)
}

func TestManager_HGetAll(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()

	empty, err := manager.HGetAll(ctx, "routes")
	require.NoError(t, err)
	assert.Empty(t, empty)

	mr.HSet("routes", "alice", "node-a")
	mr.HSet("routes", "bob", "node-b")

	all, err := manager.HGetAll(ctx, "routes")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "node-a", "bob": "node-b"}, all)
}

func TestManager_Ping(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	assert.NoError(t, manager.Ping(context.Background()))
}

func TestManager_Close(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()

	require.NoError(t, manager.Close())
	// 重复关闭是安全的
	require.NoError(t, manager.Close())

	ctx := context.Background()
	_, err := manager.HGet(ctx, "routes", "alice")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, manager.HSet(ctx, "routes", "alice", "node-a"), ErrClosed)
	assert.ErrorIs(t, manager.Ping(ctx), ErrClosed)
}

func TestManager_HealthCheckStopsOnClose(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	manager, err := NewManager(Config{Addr: mr.Addr(), HealthCheckInterval: 10 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, manager.Close())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.False(t, cfg.TLSEnabled)
}
